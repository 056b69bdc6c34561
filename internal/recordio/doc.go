// Package recordio reads and writes the comma-joined record files that hold
// the course catalog and the student and faculty directories.
//
// Each line is one record. Readers skip lines that fail validation and lines
// that repeat an earlier record's key, logging each skip at debug level.
// Writers replace the whole file atomically.
//
// Course line:  name,title,section,credits,instructorId,cap,days[,start,end]
// Student line: first,last,id,email,passwordHash,maxCredits
// Faculty line: first,last,id,email,passwordHash,maxCourses
//
// Arranged courses ("A" days) carry exactly seven fields; all others nine.
// An instructor id of "null" or "" means no instructor.
package recordio
