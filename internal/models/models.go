package models

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "WAITING"
	QueueStatusMatched   QueueStatus = "MATCHED"
	QueueStatusCancelled QueueStatus = "CANCELLED"
)

type MatchMode string

const (
	MatchModeSolo    MatchMode = "SOLO"
	MatchModeOneVOne MatchMode = "ONE_V_ONE"
)

type MatchStatus string

const (
	MatchStatusActive    MatchStatus = "ACTIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusAbandoned MatchStatus = "ABANDONED"
)

type Problem struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Difficulty  Difficulty `json:"difficulty" gorm:"type:difficulty;not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	Tests       []TestCase `json:"tests,omitempty" gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE"`
}

type TestCase struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProblemID      uuid.UUID `json:"problem_id" gorm:"type:uuid;not null;index"`
	Stdin          string    `json:"stdin" gorm:"type:text;not null;default:''"`
	ExpectedOutput string    `json:"expected_output" gorm:"type:text;not null"`
	TestOrder      int32     `json:"test_order" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// QueueEntry is a player waiting for an opponent in one difficulty bucket.
// At most one WAITING entry exists per user; an entry never changes once it
// leaves WAITING.
type QueueEntry struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID     string      `json:"user_id" gorm:"size:64;not null;index"`
	Difficulty Difficulty  `json:"difficulty" gorm:"type:difficulty;not null"`
	Status     QueueStatus `json:"status" gorm:"type:queue_status;not null;default:'WAITING';index"`
	JoinedAt   time.Time   `json:"joined_at" gorm:"not null"`
}

// Match is a timed solo or head-to-head round over a single problem.
// Status only ever moves ACTIVE -> COMPLETED or ACTIVE -> ABANDONED; EndsAt
// is fixed at creation.
type Match struct {
	ID               uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProblemID        uuid.UUID   `json:"problem_id" gorm:"type:uuid;not null"`
	Mode             MatchMode   `json:"mode" gorm:"type:match_mode;not null"`
	Status           MatchStatus `json:"status" gorm:"type:match_status;not null;default:'ACTIVE';index"`
	Difficulty       Difficulty  `json:"difficulty" gorm:"type:difficulty;not null"`
	Player1ID        string      `json:"player1_id" gorm:"size:64;not null;index"`
	Player2ID        *string     `json:"player2_id,omitempty" gorm:"size:64;index"`
	StartedAt        time.Time   `json:"started_at" gorm:"not null"`
	EndsAt           time.Time   `json:"ends_at" gorm:"not null"`
	Player1Submitted bool        `json:"player1_submitted" gorm:"not null;default:false"`
	Player2Submitted bool        `json:"player2_submitted" gorm:"not null;default:false"`
	WinnerID         *string     `json:"winner_id,omitempty" gorm:"size:64"`
	CreatedAt        time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
	Problem          Problem     `json:"problem,omitempty" gorm:"foreignKey:ProblemID"`
}

func (m *Match) HasPlayer(userID string) bool {
	if m.Player1ID == userID {
		return true
	}
	return m.Player2ID != nil && *m.Player2ID == userID
}

func (m *Match) Terminal() bool {
	return m.Status != MatchStatusActive
}

// AllSubmitted reports whether every seat of the match has a passing
// submission recorded. Solo matches only look at player 1.
func (m *Match) AllSubmitted() bool {
	if m.Mode == MatchModeSolo {
		return m.Player1Submitted
	}
	return m.Player1Submitted && m.Player2Submitted
}

// RemainingSeconds is the whole seconds until EndsAt, clamped at zero.
func (m *Match) RemainingSeconds(now time.Time) int64 {
	remaining := m.EndsAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining.Seconds())
}

// Submission is one judged attempt within a match. Rows are append-only;
// only rows with Passed=true take part in winner selection.
type Submission struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MatchID       uuid.UUID `json:"match_id" gorm:"type:uuid;not null;index"`
	UserID        string    `json:"user_id" gorm:"size:64;not null;index"`
	Code          string    `json:"code" gorm:"type:text;not null"`
	Language      string    `json:"language" gorm:"size:32;not null"`
	CodeLength    int32     `json:"code_length" gorm:"not null"`
	Passed        bool      `json:"passed" gorm:"not null;default:false;index"`
	Output        string    `json:"output" gorm:"type:text"`
	Errors        string    `json:"errors" gorm:"type:text"`
	ExecutionTime float64   `json:"execution_time" gorm:"not null;default:0"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"not null"`
}
