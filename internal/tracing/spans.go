package tracing

// Span attribute keys.
const (
	AttrUserID      = "user.id"
	AttrUserRole    = "user.role"
	AttrCourse      = "course.key"
	AttrFacultyID   = "faculty.id"
	AttrOutcome     = "registration.outcome"
	AttrPromotedID  = "registration.promoted"
	AttrOpenSeats   = "roll.open_seats"
	AttrWaitlist    = "roll.waitlist"
	AttrRecordCount = "records.count"
)

// Span names.
const (
	SpanLogin          = "registration.login"
	SpanLogout         = "registration.logout"
	SpanEnroll         = "registration.enroll"
	SpanDrop           = "registration.drop"
	SpanResetSchedule  = "registration.reset_schedule"
	SpanAssignFaculty  = "registration.assign_faculty"
	SpanRemoveFaculty  = "registration.remove_faculty"
	SpanResetFaculty   = "registration.reset_faculty"
	SpanClearData      = "registration.clear"
	SpanStoreSave      = "store.save"
	SpanStoreLoad      = "store.load"
	SpanScenarioStep   = "scenario.step"
	SpanExportWorkbook = "export.workbook"
)

// Event names.
const (
	EventWaitlisted = "roll.waitlisted"
	EventPromoted   = "roll.promoted"
	EventRejected   = "registration.rejected"
)
