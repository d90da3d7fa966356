package models

// Counter backs sequential number allocation, currently only the student
// number sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64" json:"name"`
	Value int64  `gorm:"not null" json:"value"`
}

// CounterStudentNumber is the sequence used for Student.StudentNumber.
const CounterStudentNumber = "student_number"
