package domain

// SessionMode selects the input method offered by the renderer.
type SessionMode string

const (
	ModePractice  SessionMode = "practice"
	ModeChallenge SessionMode = "challenge"
)

// QuestionPattern selects how a session's question set is built.
type QuestionPattern string

const (
	PatternRandom     QuestionPattern = "random"
	PatternSequential QuestionPattern = "sequential"
)

// SessionStatus is the lifecycle state of a play-through.
type SessionStatus string

const (
	StatusSetup    SessionStatus = "setup"
	StatusPlaying  SessionStatus = "playing"
	StatusFinished SessionStatus = "finished"
)

// ParseMode validates a renderer-supplied mode.
func ParseMode(raw string) (SessionMode, error) {
	switch SessionMode(raw) {
	case ModePractice, ModeChallenge:
		return SessionMode(raw), nil
	}
	return "", ErrInvalidMode
}

// ParsePattern validates a renderer-supplied question pattern.
func ParsePattern(raw string) (QuestionPattern, error) {
	switch QuestionPattern(raw) {
	case PatternRandom, PatternSequential:
		return QuestionPattern(raw), nil
	}
	return "", ErrInvalidPattern
}

// Mission is one multiplication question. It is never mutated after creation.
type Mission struct {
	ID           string `json:"id"`
	Multiplicand int    `json:"multiplicand"`
	Multiplier   int    `json:"multiplier"`
	Answer       int    `json:"answer"`
	Choices      []int  `json:"choices"`
	FocusTable   int    `json:"focusTable"`

	Prompt        string `json:"prompt"`
	NarrativeHook string `json:"narrativeHook"`
	RewardHint    string `json:"rewardHint"`
}

// SamePair reports whether both missions ask the same question.
func (m Mission) SamePair(other Mission) bool {
	return m.Multiplicand == other.Multiplicand && m.Multiplier == other.Multiplier
}

// AttemptRecord is a learner's answer to a mission. IsCorrect is fixed at creation.
type AttemptRecord struct {
	Mission        Mission `json:"mission"`
	SuppliedAnswer int     `json:"suppliedAnswer"`
	IsCorrect      bool    `json:"isCorrect"`
}

// FeedbackType tags the result of the last submission.
type FeedbackType string

const (
	FeedbackCorrect   FeedbackType = "correct"
	FeedbackIncorrect FeedbackType = "incorrect"
)

// Feedback describes the most recent answer for the renderer.
type Feedback struct {
	Type    FeedbackType `json:"type"`
	Message string       `json:"message"`
}

// LeaderboardEntry is a persisted record of one finished session.
// CreatedAt is the completion time in epoch milliseconds and doubles as a dedupe key.
type LeaderboardEntry struct {
	ID             string      `json:"id"`
	Score          int         `json:"score"`
	CorrectCount   int         `json:"correctCount"`
	TotalQuestions int         `json:"totalQuestions"`
	DurationMs     int64       `json:"durationMs"`
	Mode           SessionMode `json:"mode"`
	CreatedAt      int64       `json:"createdAt"`
}

// RewardRarity ranks rewards.
type RewardRarity string

const (
	RarityCommon RewardRarity = "common"
	RarityRare   RewardRarity = "rare"
	RarityEpic   RewardRarity = "epic"
)

// Reward is a collectible handed out for streaks and milestones.
type Reward struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Rarity      RewardRarity `json:"rarity"`
}
