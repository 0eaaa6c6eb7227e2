package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

type Mode string

const (
	ModeSignIn Mode = "signin"
	ModeSignUp Mode = "signup"
)

// Form is the sign-in / sign-up form. Username and ConfirmPassword are only used for sign-up.
type Form struct {
	Username        string `json:"username"        validate:"required_if=Mode signup,max=64"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required_if=Mode signup"`
	Mode            Mode   `json:"-"`
}

// FlowSnapshot is the observable state of a Flow.
type FlowSnapshot struct {
	State     State  `json:"state"`
	Mode      Mode   `json:"mode"`
	ModalOpen bool   `json:"modalOpen"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Flow is the auth submission state machine: idle, submitting, succeeded or failed.
type Flow struct {
	mu        sync.Mutex
	validate  *validator.Validate
	state     State
	mode      Mode
	modalOpen bool
	form      Form
	err       error
}

func NewFlow(validate *validator.Validate) *Flow {
	return &Flow{validate: validate, state: StateIdle, mode: ModeSignIn}
}

// Open shows the auth form in the given mode, for example after a protected action was refused.
func (f *Flow) Open(mode Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.mode = mode
	f.modalOpen = true
}

// Close hides the form. A running submission is unaffected.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modalOpen = false
}

// Reset returns the flow to idle with an empty form.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.state = StateIdle
	f.form = Form{}
	f.err = nil
	f.modalOpen = false
}

// Submit runs submit for the form unless a submission is already running, in which case
// ErrSubmitInProgress is returned and nothing changes. Sign-up forms with mismatching passwords
// and forms failing validation fail without calling submit.
// On success the form is cleared and the modal closed; on failure the error is kept and only
// the password fields are cleared.
func (f *Flow) Submit(ctx context.Context, mode Mode, form Form, submit func(ctx context.Context, form Form) error) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	form.Mode = mode
	f.mode = mode
	f.modalOpen = true
	f.form = form

	if mode == ModeSignUp && form.Password != form.ConfirmPassword {
		f.failLocked(ErrPasswordMismatch)
		f.mu.Unlock()
		return ErrPasswordMismatch
	}
	if err := f.validate.Struct(form); err != nil {
		f.failLocked(err)
		f.mu.Unlock()
		return err
	}
	f.state = StateSubmitting
	f.err = nil
	f.mu.Unlock()

	err := submit(ctx, form)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.failLocked(err)
		return err
	}
	f.state = StateSucceeded
	f.form = Form{}
	f.modalOpen = false
	return nil
}

func (f *Flow) failLocked(err error) {
	f.state = StateFailed
	f.err = err
	f.form.Password = ""
	f.form.ConfirmPassword = ""
}

func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := FlowSnapshot{
		State:     f.state,
		Mode:      f.mode,
		ModalOpen: f.modalOpen,
		Username:  f.form.Username,
		Email:     f.form.Email,
	}
	if f.err != nil {
		snap.Error = userMessage(f.err)
	}
	return snap
}

// Form returns the retained form values. Passwords are empty after a failure.
func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func userMessage(err error) string {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match!"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrAccountExists):
		return "An account with this email already exists."
	case errors.As(err, &validationErrors):
		return "Please check the " + validationErrors[0].Field() + " field."
	default:
		return "Authentication failed. Please try again."
	}
}
