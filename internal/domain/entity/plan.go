package entity

// Plan is the fixed-shape build plan returned by the planner. Only
// Summary and Features depend on the request; everything else is a
// template literal.
type Plan struct {
	Summary   string       `json:"summary" bson:"summary"`
	Frontend  FrontendPlan `json:"frontend" bson:"frontend"`
	Backend   BackendPlan  `json:"backend" bson:"backend"`
	Features  []string     `json:"features" bson:"features"`
	NextSteps []string     `json:"next_steps" bson:"next_steps"`
}

type FrontendPlan struct {
	Stack      []string `json:"stack" bson:"stack"`
	Pages      []string `json:"pages" bson:"pages"`
	Components []string `json:"components" bson:"components"`
	APIUsage   []string `json:"api_usage" bson:"api_usage"`
}

type BackendPlan struct {
	Stack       []string   `json:"stack" bson:"stack"`
	Endpoints   []Endpoint `json:"endpoints" bson:"endpoints"`
	Collections []string   `json:"collections" bson:"collections"`
}

type Endpoint struct {
	Route  string `json:"route" bson:"route"`
	Method string `json:"method" bson:"method"`
	Desc   string `json:"desc" bson:"desc"`
}

// NewPlan builds the starter plan for an idea. A nil features slice is
// normalized to an empty one so the echoed list always serializes as [].
func NewPlan(idea string, features []string) *Plan {
	if features == nil {
		features = []string{}
	}
	return &Plan{
		Summary: "Plan to build: " + idea,
		Frontend: FrontendPlan{
			Stack:      []string{"Vite + React", "TailwindCSS", "Lucide Icons", "Framer Motion"},
			Pages:      []string{"Home/Hero with 3D Spline", "Features", "Chatbot", "Dashboard (optional)"},
			Components: []string{"Navbar", "Hero", "Chatbot", "Planner", "Footer"},
			APIUsage:   []string{"POST /api/chat", "POST /api/plan"},
		},
		Backend: BackendPlan{
			Stack: []string{"FastAPI", "MongoDB"},
			Endpoints: []Endpoint{
				{Route: "/api/chat", Method: "POST", Desc: "Conversational helper"},
				{Route: "/api/plan", Method: "POST", Desc: "Generate build plan and store"},
			},
			Collections: []string{"generation"},
		},
		Features: features,
		NextSteps: []string{
			"Review and tweak the plan",
			"Auto-generate starter components",
			"Iterate with the chatbot for refinements",
		},
	}
}
