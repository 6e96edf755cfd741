package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Policy décide du comportement d'une séquence quand une étape échoue
type Policy int

const (
	// StopOnFirstFailure arrête la séquence, les enregistrements déjà créés restent en place
	StopOnFirstFailure Policy = iota
	// StopAndCompensate arrête la séquence puis annule les étapes réussies, en ordre inverse
	StopAndCompensate
)

func (p Policy) String() string {
	switch p {
	case StopAndCompensate:
		return "stop-and-compensate"
	default:
		return "stop-on-first-failure"
	}
}

// Step est une étape d'une séquence de mutations
// Compensate est optionnel: une étape sans compensation n'est jamais annulée
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Status représente le résultat d'une étape
type Status string

const (
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
	StatusSkipped     Status = "skipped"
	StatusCompensated Status = "compensated"
	// StatusDangling: étape réussie, non annulée alors que la séquence a échoué
	StatusDangling Status = "dangling"
)

// Outcome est le résultat individuel d'une étape
type Outcome struct {
	Step   string
	Status Status
	Err    error
}

// PartialFailureError est retournée quand une étape échoue après que d'autres ont réussi
type PartialFailureError struct {
	FailedStep  string
	Cause       error
	Completed   []string
	Compensated []string
	// CompensationErrors contient les compensations qui ont elles-mêmes échoué
	CompensationErrors map[string]error
}

func (e *PartialFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "étape %q en échec: %v", e.FailedStep, e.Cause)
	if len(e.Compensated) > 0 {
		fmt.Fprintf(&b, " (annulées: %s)", strings.Join(e.Compensated, ", "))
	}
	if dangling := e.Dangling(); len(dangling) > 0 {
		fmt.Fprintf(&b, " (conservées: %s)", strings.Join(dangling, ", "))
	}
	return b.String()
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

// Dangling retourne les étapes réussies qui n'ont pas été annulées
func (e *PartialFailureError) Dangling() []string {
	compensated := make(map[string]bool, len(e.Compensated))
	for _, name := range e.Compensated {
		compensated[name] = true
	}
	var out []string
	for _, name := range e.Completed {
		if !compensated[name] {
			out = append(out, name)
		}
	}
	return out
}

// Sequence exécute des étapes une par une, jamais en parallèle
type Sequence struct {
	policy Policy
	logger *zap.Logger
}

// NewSequence crée une séquence avec la politique donnée
func NewSequence(policy Policy, logger *zap.Logger) *Sequence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequence{policy: policy, logger: logger}
}

// Policy retourne la politique de la séquence
func (s *Sequence) Policy() Policy {
	return s.policy
}

// Run exécute les étapes dans l'ordre et retourne le résultat de chacune
// En cas d'échec l'erreur est un *PartialFailureError
func (s *Sequence) Run(ctx context.Context, steps []Step) ([]Outcome, error) {
	outcomes := make([]Outcome, len(steps))
	for i, step := range steps {
		outcomes[i] = Outcome{Step: step.Name, Status: StatusSkipped}
	}

	var completed []int
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return outcomes, s.fail(ctx, steps, outcomes, completed, i, err)
		}
		if err := step.Run(ctx); err != nil {
			return outcomes, s.fail(ctx, steps, outcomes, completed, i, err)
		}
		outcomes[i].Status = StatusDone
		completed = append(completed, i)
		s.logger.Debug("step done", zap.String("step", step.Name))
	}
	return outcomes, nil
}

func (s *Sequence) fail(ctx context.Context, steps []Step, outcomes []Outcome, completed []int, failed int, cause error) error {
	outcomes[failed].Status = StatusFailed
	outcomes[failed].Err = cause

	perr := &PartialFailureError{
		FailedStep: steps[failed].Name,
		Cause:      cause,
	}
	for _, i := range completed {
		perr.Completed = append(perr.Completed, steps[i].Name)
		outcomes[i].Status = StatusDangling
	}

	if s.policy == StopAndCompensate {
		// contexte détaché: l'annulation doit aller au bout même si ctx est annulé
		compCtx := context.WithoutCancel(ctx)
		for j := len(completed) - 1; j >= 0; j-- {
			i := completed[j]
			if steps[i].Compensate == nil {
				continue
			}
			if err := steps[i].Compensate(compCtx); err != nil {
				if perr.CompensationErrors == nil {
					perr.CompensationErrors = make(map[string]error)
				}
				perr.CompensationErrors[steps[i].Name] = err
				outcomes[i].Err = err
				s.logger.Error("compensation failed", zap.String("step", steps[i].Name), zap.Error(err))
				continue
			}
			outcomes[i].Status = StatusCompensated
			perr.Compensated = append(perr.Compensated, steps[i].Name)
		}
	}

	s.logger.Error("step sequence failed",
		zap.String("step", perr.FailedStep),
		zap.Stringer("policy", s.policy),
		zap.Strings("dangling", perr.Dangling()),
		zap.Error(cause),
	)
	return perr
}
