package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the closed set of per-day attendance outcomes.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
	StatusExcused AttendanceStatus = "EXCUSED"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// User is an account. The password hash never leaves the server.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef is the reduced user shape expanded on related records.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role,omitempty"`
}

// Student is the profile attached to a STUDENT user.
type Student struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	User        *UserRef   `json:"user,omitempty"`
}

// Teacher is the profile attached to a TEACHER user.
type Teacher struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      *string   `json:"phone,omitempty"`
	Department *string   `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	User       *UserRef  `json:"user,omitempty"`
}

// Class is unique on (name, grade, section, academicYear).
type Class struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Grade           int       `json:"grade"`
	Section         *string   `json:"section,omitempty"`
	AcademicYear    string    `json:"academicYear"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	EnrollmentCount *int      `json:"enrollmentCount,omitempty"`
}

// Subject is unique on its code.
type Subject struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Code            string              `json:"code"`
	Description     *string             `json:"description,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Assignments     []SubjectAssignment `json:"assignments,omitempty"`
	AssignmentCount *int                `json:"assignmentCount,omitempty"`
	EnrollmentCount *int                `json:"enrollmentCount,omitempty"`
}

// SubjectAssignment links a teacher to a subject, unique per pair.
type SubjectAssignment struct {
	ID         uuid.UUID `json:"id"`
	TeacherID  uuid.UUID `json:"teacherId"`
	SubjectID  uuid.UUID `json:"subjectId"`
	AssignedAt time.Time `json:"assignedAt"`
	Teacher    *Teacher  `json:"teacher,omitempty"`
	Subject    *Subject  `json:"subject,omitempty"`
}

// Enrollment links a student to a class and subject, unique per triple.
type Enrollment struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"studentId"`
	ClassID    uuid.UUID `json:"classId"`
	SubjectID  uuid.UUID `json:"subjectId"`
	EnrolledAt time.Time `json:"enrolledAt"`
	Student    *Student  `json:"student,omitempty"`
	Class      *Class    `json:"class,omitempty"`
	Subject    *Subject  `json:"subject,omitempty"`
}

// Attendance records one student's status for one class/subject/date,
// unique per (studentId, classId, subjectId, date).
type Attendance struct {
	ID        uuid.UUID        `json:"id"`
	StudentID uuid.UUID        `json:"studentId"`
	TeacherID uuid.UUID        `json:"teacherId"`
	ClassID   uuid.UUID        `json:"classId"`
	SubjectID uuid.UUID        `json:"subjectId"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Remarks   *string          `json:"remarks,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Student   *Student         `json:"student,omitempty"`
	Teacher   *Teacher         `json:"teacher,omitempty"`
	Class     *Class           `json:"class,omitempty"`
	Subject   *Subject         `json:"subject,omitempty"`
}

// AttendanceStatistics sums per-status counters over a set of records.
// The rate counts LATE and EXCUSED as attended.
type AttendanceStatistics struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// StudentAttendanceReport is one student's aggregated attendance.
type StudentAttendanceReport struct {
	Student        *Student `json:"student"`
	Total          int      `json:"total"`
	Present        int      `json:"present"`
	Absent         int      `json:"absent"`
	Late           int      `json:"late"`
	Excused        int      `json:"excused"`
	AttendanceRate float64  `json:"attendanceRate"`
}

// AttendanceReportSummary averages the per-student rates, not a global
// weighted rate.
type AttendanceReportSummary struct {
	TotalStudents         int     `json:"totalStudents"`
	AverageAttendanceRate float64 `json:"averageAttendanceRate"`
}
