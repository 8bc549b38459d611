package skill

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	CreatedAt   time.Time
}

// Record is one user_skills row. Type holds the text as stored; rows written
// through the service always carry a canonical value, legacy rows may not.
type Record struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	Type             string
	ProficiencyLevel string
	Tags             []string
	CreatedAt        time.Time
}

type Ref struct {
	ID   uuid.UUID
	Name string
}

type Capabilities struct {
	CanTeach bool
	CanLearn bool
}
