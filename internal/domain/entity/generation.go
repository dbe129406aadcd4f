package entity

import "time"

const GenerationStatusPlanned = "planned"

// Generation is the create-only record persisted for every plan request.
// There is no update or delete path; the document id is assigned by the
// store on insert.
type Generation struct {
	Idea      string    `json:"idea" bson:"idea"`
	Features  []string  `json:"features" bson:"features"`
	Status    string    `json:"status" bson:"status"`
	Plan      *Plan     `json:"plan" bson:"plan"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func NewGeneration(idea string, features []string, plan *Plan) *Generation {
	if features == nil {
		features = []string{}
	}
	return &Generation{
		Idea:      idea,
		Features:  features,
		Status:    GenerationStatusPlanned,
		Plan:      plan,
		CreatedAt: time.Now(),
	}
}
