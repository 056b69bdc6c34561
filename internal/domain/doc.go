// Package domain implements the enrollment and scheduling core.
//
// This package follows the same layering as the rest of the module:
//   - Contains only pure Go code plus internal/collections (no I/O, no logging)
//   - Defines entity types (Course, Student, Faculty, Registrar) and the state they own
//   - Implements the invariant-preserving logic (conflict detection, roll/waitlist policy)
//   - Has no knowledge of record files, caches, sessions or databases
//
// # Core Types
//
// Activity carries a title and a meeting pattern. Meeting days are either the
// Arranged marker "A" or a non-repeating set of weekday letters; times are encoded
// as hour*100+minute. Two activities conflict when neither is arranged, they share a
// day and their time ranges overlap inclusively (touching endpoints conflict).
//
// Course embeds Activity and owns exactly one Roll. Use CourseBuilder or NewCourse for
// construction; both validate every field, including the course name through
// ValidateCourseName.
//
// Roll is a course's enrollment state machine: a roster bounded by the enrollment cap
// and a waitlist of WaitlistSize students. A student is never on both.
//
// Schedule is a student's ordered list of courses with no duplicate names and no
// conflicts. FacultySchedule adds instructor bookkeeping on top of it.
//
// # Consistency
//
// Roll and Schedule reference each other. Roll.Enroll on the waitlist path and
// Roll.Drop update the affected Schedule themselves; seating a student on the roster
// is paired with Schedule.AddCourse by the caller (see internal/registration), which
// treats both mutations as one step.
//
// # Errors
//
// Failures are *Error values carrying a user-facing message. Match them with
// errors.Is against ErrInvalidArgument, ErrScheduleConflict, ErrDuplicateEntry or
// ErrInvalidTransition.
package domain
