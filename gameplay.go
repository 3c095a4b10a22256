package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Clock is the time source of a gameplay session.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Sound string

const (
	SoundCorrect Sound = "correct"
	SoundWrong   Sound = "wrong"
	SoundLogin   Sound = "login"
)

// Feedback plays sound effects. Calls never fail.
type Feedback interface {
	Play(Sound)
}

type QuestionSupplier interface {
	DrawQuestions(ctx context.Context, subject, topic string, count int, r *rand.Rand) ([]Question, error)
}

type HighScoreStore interface {
	GetHighScore(ctx context.Context, userID uint, key HighScoreKey) (int, bool, error)
	UpsertHighScore(ctx context.Context, userID uint, key HighScoreKey, score int) (bool, error)
}

type GameSettings struct {
	QuestionCount   int
	MaxQuestionTime time.Duration
}

func (g GameSettings) withDefaults() GameSettings {
	if g.QuestionCount <= 0 {
		g.QuestionCount = 20
	}
	if g.MaxQuestionTime <= 0 {
		g.MaxQuestionTime = 60 * time.Second
	}
	return g
}

// Gameplay runs the question loop of one playthrough: issue a question, wait
// for an answer, score it, then advance or end.
type Gameplay struct {
	player    *Player
	questions QuestionSupplier
	scores    HighScoreStore
	clock     Clock
	feedback  Feedback
	rnd       *rand.Rand
	settings  GameSettings
	onEnd     func(ctx context.Context) error

	pool      []Question
	index     int // 1-based
	options   []string
	startedAt time.Time
	shownAt   time.Time
	elapsed   time.Duration
	running   bool
}

func NewGameplay(player *Player, questions QuestionSupplier, scores HighScoreStore, clock Clock,
	feedback Feedback, rnd *rand.Rand, settings GameSettings, onEnd func(ctx context.Context) error) *Gameplay {
	return &Gameplay{
		player:    player,
		questions: questions,
		scores:    scores,
		clock:     clock,
		feedback:  feedback,
		rnd:       rnd,
		settings:  settings.withDefaults(),
		onEnd:     onEnd,
	}
}

// Start draws the questions, resets the stats and shows question 1.
func (g *Gameplay) Start(ctx context.Context) error {
	s := &g.player.Session
	pool, err := g.questions.DrawQuestions(ctx, s.Subject, s.Topic, g.settings.QuestionCount, g.rnd)
	if err != nil {
		return fmt.Errorf("draw questions: %w", err)
	}
	s.ResetStats()
	s.QuestionCount = len(pool)
	g.pool = pool
	g.index = 0
	g.elapsed = 0
	g.startedAt = g.clock.Now()
	g.running = true
	return g.Advance(ctx)
}

// Advance moves to the next question, ending the session past the last one.
func (g *Gameplay) Advance(ctx context.Context) error {
	g.index++
	if g.index > len(g.pool) {
		return g.End(ctx)
	}
	g.options = shuffleAnswers(g.pool[g.index-1], g.rnd)
	g.shownAt = g.clock.Now()
	return nil
}

// Answer scores the current question and advances.
func (g *Gameplay) Answer(ctx context.Context, correct bool) error {
	if !g.running {
		return invalid("button", "the game is over")
	}
	taken := g.clock.Now().Sub(g.shownAt)
	s := &g.player.Session
	s.RecordAnswer(correct, taken, g.settings.MaxQuestionTime)
	if correct {
		s.CorrectAnswers++
		g.feedback.Play(SoundCorrect)
	} else {
		g.feedback.Play(SoundWrong)
	}
	return g.Advance(ctx)
}

// AnswerOption answers with the option at index i of the shown options.
func (g *Gameplay) AnswerOption(ctx context.Context, i int) error {
	if !g.running {
		return invalid("button", "the game is over")
	}
	if i < 0 || i >= len(g.options) {
		return invalid("value", "answer must be between 0 and %d", len(g.options)-1)
	}
	return g.Answer(ctx, g.options[i] == g.Current().CorrectAnswer)
}

// End freezes the time, saves a beaten high score and hands over to the summary.
func (g *Gameplay) End(ctx context.Context) error {
	g.Update(g.clock.Now())
	g.running = false
	s := &g.player.Session
	s.TotalTime = g.elapsed

	var saveErr error
	id := &g.player.Identity
	key := s.Key()
	if best, tracked := id.HighScore(key); tracked && id.LoggedIn && s.Score > best {
		raised, err := g.scores.UpsertHighScore(ctx, id.UserID, key, s.Score)
		switch {
		case err != nil:
			log.Printf("save high score for user %d: %v", id.UserID, err)
			saveErr = err
		case raised:
			id.setHighScore(key, s.Score)
			s.NewHighScore = true
			log.Printf("new high score %d for %q on %+v", s.Score, id.Username, key)
		default:
			// beaten from another client since confirm; show what is stored
			if stored, ok, err := g.scores.GetHighScore(ctx, id.UserID, key); err == nil && ok {
				id.setHighScore(key, stored)
			}
		}
	}

	if g.onEnd != nil {
		if err := g.onEnd(ctx); err != nil {
			return err
		}
	}
	return saveErr
}

// Update refreshes the elapsed time while the session runs.
func (g *Gameplay) Update(now time.Time) {
	if g.running {
		g.elapsed = now.Sub(g.startedAt)
	}
}

func (g *Gameplay) Running() bool { return g.running }

// Current is the question being shown. It is the zero Question once the session ended.
func (g *Gameplay) Current() Question {
	if g.index < 1 || g.index > len(g.pool) {
		return Question{}
	}
	return g.pool[g.index-1]
}

func (g *Gameplay) Options() []string { return g.options }

func (g *Gameplay) Index() int { return g.index }

func (g *Gameplay) Elapsed() time.Duration { return g.elapsed }
