package types

// Wire shapes exchanged with the transport layer. Field names follow the
// client cache conventions (camelCase for session data, snake_case for
// catalog and roster payloads).

// TaskRef is one question entry inside a resolved assignment tree.
type TaskRef struct {
	TaskKey    string  `json:"task_key"`
	Difficulty float64 `json:"difficulty"`
	Standard   int     `json:"standard"`
	Objective  int     `json:"objective"`
}

// AssignmentTree maps content key -> curriculum key -> ordered tasks.
// Curricula assigned directly to the account live under the synthetic
// "custom" content key.
type AssignmentTree map[string]map[string][]TaskRef

// CustomContentKey holds content-independent curricula in an
// AssignmentTree.
const CustomContentKey = "custom"

// Catalog is the role-scoped administrator view of the content library.
// CustomCurriculums and the keys of CurriculumDict partition the visible
// curricula; AvailableQuestions holds the questions free to pair.
type Catalog struct {
	ContentDict        map[string][]string `json:"content_dict"`
	AllCurriculums     []string            `json:"all_curriculums"`
	CustomCurriculums  []string            `json:"custom_curriculums"`
	AllQuestions       []string            `json:"all_questions"`
	AvailableQuestions []string            `json:"available_questions"`
	CurriculumDict     map[string][]string `json:"curriculum_dict"`
}

// RosterPayload is the bulk add/remove request for a classroom.
type RosterPayload struct {
	Accounts     []string `json:"accounts"`
	ContentAreas []string `json:"content_areas"`
}

// RosterStatus reports bulk roster outcomes. A non-empty NotFoundEmails
// with an empty ErrorMsg means partial success.
type RosterStatus struct {
	ErrorMsg       string   `json:"error_msg"`
	NotFoundEmails []string `json:"not_found_emails"`
}

// BootstrapPayload seeds the client session cache at login.
type BootstrapPayload struct {
	Assignments          AssignmentTree `json:"assignments"`
	CurrentCurriculum    string         `json:"currentCurriculum"`
	CurrentQuestion      string         `json:"currentQuestionId"`
	CompletedCurriculums interface{}    `json:"completedCurriculums"`
	ContentScores        interface{}    `json:"contentScores"`
	CurriculumScores     interface{}    `json:"curriculumScores"`
	CorrectAnswers       interface{}    `json:"correctAnswers"`
	IncorrectAnswers     interface{}    `json:"incorrectAnswers"`
	XP                   interface{}    `json:"xp"`
	UpdatedAt            string         `json:"updatedAt"`
}

// XPRecord is one ledger row projected for the sync delta.
type XPRecord struct {
	DXP           float64 `json:"dXP"`
	PossibleXP    float64 `json:"possible_xp"`
	QuestionKey   string  `json:"question_id"`
	CurriculumKey string  `json:"curriculum_id"`
	ContentKey    string  `json:"content_id"`
	Difficulty    float64 `json:"difficulty"`
	Standard      int     `json:"standard"`
	Objective     int     `json:"objective"`
	ElapsedTime   float64 `json:"elapsed_time"`
	Timestamp     string  `json:"timestamp"`
}

// XPDelta is the incremental sync response for a watermark fetch.
type XPDelta struct {
	XPData             []XPRecord `json:"xpData"`
	MostRecentDatetime string     `json:"mostRecentDatetime"`
}
