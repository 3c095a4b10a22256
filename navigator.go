package main

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type ScreenID string

const (
	ScreenMainMenu        ScreenID = "main_menu"
	ScreenCharacterSelect ScreenID = "character_select"
	ScreenSubjectSelect   ScreenID = "subject_select"
	ScreenTopicSelect     ScreenID = "topic_select"
	ScreenConfirm         ScreenID = "confirm"
	ScreenGameplay        ScreenID = "gameplay"
	ScreenSummary         ScreenID = "summary"
	ScreenLogin           ScreenID = "login"
	ScreenRegister        ScreenID = "register"
)

// Screen is one state of the navigator.
type Screen interface {
	// OnEnter runs when the navigator switches to the screen. On error the
	// navigator stays where it was.
	OnEnter(ctx context.Context) error
	HandleInput(ctx context.Context, a Action) error
	Update(now time.Time)
	Render() View
}

// Action is a button activation, with the form fields of login and register.
type Action struct {
	Button          string `json:"button" binding:"required"`
	Value           string `json:"value"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ButtonView struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
	Label string `json:"label"`
}

type GameView struct {
	QuestionNumber int      `json:"questionNumber"`
	QuestionCount  int      `json:"questionCount"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Score          int      `json:"score"`
	Combo          int      `json:"combo"`
	ElapsedSeconds float64  `json:"elapsedSeconds"`
}

// View is what a screen draws.
type View struct {
	Screen  ScreenID     `json:"screen"`
	Heading string       `json:"heading"`
	Lines   []string     `json:"lines,omitempty"`
	Message string       `json:"message,omitempty"`
	Buttons []ButtonView `json:"buttons"`
	Fields  []string     `json:"fields,omitempty"`
	Game    *GameView    `json:"game,omitempty"`
	Cues    []Sound      `json:"cues,omitempty"`
}

// Catalog serves the reference data the pickers list.
type Catalog interface {
	Characters(ctx context.Context) ([]Character, error)
	Subjects(ctx context.Context) ([]Subject, error)
	Topics(ctx context.Context, subject string) ([]Topic, error)
}

type Deps struct {
	Catalog   Catalog
	Questions QuestionSupplier
	Scores    HighScoreStore
	Auth      *AuthService
	Clock     Clock
	Rand      *rand.Rand
	Settings  GameSettings
}

// cueBuffer collects sounds until the next render hands them to the client.
type cueBuffer struct {
	cues []Sound
}

func (b *cueBuffer) Play(s Sound) { b.cues = append(b.cues, s) }

func (b *cueBuffer) drain() []Sound {
	out := b.cues
	b.cues = nil
	return out
}

// Navigator is the screen state machine of one client. All methods are safe
// for concurrent use; actions are processed one at a time.
type Navigator struct {
	mu      sync.Mutex
	deps    Deps
	player  Player
	screens map[ScreenID]Screen
	current ScreenID
	cues    cueBuffer
}

func NewNavigator(deps Deps) *Navigator {
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Rand == nil {
		deps.Rand = newRand(nil)
	}
	deps.Settings = deps.Settings.withDefaults()

	n := &Navigator{deps: deps, current: ScreenMainMenu}
	n.screens = map[ScreenID]Screen{
		ScreenMainMenu:        &mainMenuScreen{nav: n},
		ScreenCharacterSelect: &characterSelectScreen{nav: n},
		ScreenSubjectSelect:   &subjectSelectScreen{nav: n},
		ScreenTopicSelect:     &topicSelectScreen{nav: n},
		ScreenConfirm:         &confirmScreen{nav: n},
		ScreenGameplay:        &gameplayScreen{nav: n},
		ScreenSummary:         &summaryScreen{nav: n},
		ScreenLogin:           &loginScreen{nav: n},
		ScreenRegister:        &registerScreen{nav: n},
	}
	return n
}

func (n *Navigator) Current() ScreenID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Player returns a copy of the client's player.
func (n *Navigator) Player() Player {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.player
	p.Identity.highScores = make(map[HighScoreKey]int, len(n.player.Identity.highScores))
	for k, v := range n.player.Identity.highScores {
		p.Identity.highScores[k] = v
	}
	return p
}

// Transition switches to target and runs its on-enter hook.
func (n *Navigator) Transition(ctx context.Context, target ScreenID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transition(ctx, target)
}

func (n *Navigator) transition(ctx context.Context, target ScreenID) error {
	scr, ok := n.screens[target]
	if !ok {
		return invalid("screen", "unknown screen %q", target)
	}
	prev := n.current
	n.current = target
	if err := scr.OnEnter(ctx); err != nil {
		// a hook may already have moved on (gameplay ending straight away)
		if n.current == target {
			n.current = prev
		}
		return err
	}
	return nil
}

// Dispatch hands a to the current screen and returns the screen shown afterwards.
func (n *Navigator) Dispatch(ctx context.Context, a Action) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.screens[n.current].HandleInput(ctx, a)
	return n.render(), err
}

// Render runs one update of the current screen and draws it.
func (n *Navigator) Render() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.render()
}

func (n *Navigator) render() View {
	scr := n.screens[n.current]
	scr.Update(n.deps.Clock.Now())
	v := scr.Render()
	v.Screen = n.current
	v.Cues = n.cues.drain()
	if v.Buttons == nil {
		v.Buttons = []ButtonView{}
	}
	return v
}
