package main

import "time"

// HighScoreKey identifies one high score of a user.
type HighScoreKey struct {
	Character string `json:"character"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
}

// Identity is who is playing. The zero value is a guest.
type Identity struct {
	Username string
	UserID   uint
	LoggedIn bool

	highScores map[HighScoreKey]int
}

// HighScore returns the cached best score for key. A logged in player with no
// record yet has a best of zero; for a guest scores are not tracked and ok is false.
func (id *Identity) HighScore(key HighScoreKey) (score int, ok bool) {
	if s, found := id.highScores[key]; found {
		return s, true
	}
	if id.LoggedIn {
		return 0, true
	}
	return 0, false
}

func (id *Identity) setHighScore(key HighScoreKey, score int) {
	if id.highScores == nil {
		id.highScores = make(map[HighScoreKey]int)
	}
	id.highScores[key] = score
}

func (id *Identity) logIn(u User) {
	*id = Identity{Username: u.Username, UserID: u.ID, LoggedIn: true}
}

func (id *Identity) logOut() {
	*id = Identity{}
}

// Session is the in-memory state of one playthrough.
type Session struct {
	Character string
	Subject   string
	Topic     string
	Scorer

	CorrectAnswers int
	QuestionCount  int
	TotalTime      time.Duration
	NewHighScore   bool
}

func (s *Session) Key() HighScoreKey {
	return HighScoreKey{Character: s.Character, Subject: s.Subject, Topic: s.Topic}
}

// Reset clears the selections and the stats.
func (s *Session) Reset() {
	*s = Session{}
}

// ResetStats clears the stats but keeps character, subject and topic.
func (s *Session) ResetStats() {
	s.Scorer.Reset()
	s.CorrectAnswers = 0
	s.QuestionCount = 0
	s.TotalTime = 0
	s.NewHighScore = false
}

type Player struct {
	Identity Identity
	Session  Session
}
