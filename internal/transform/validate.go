package transform

import (
	"fmt"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/source"
)

// FieldError disqualifies a record from import. Warnings are advisory and
// let the record proceed.
type FieldError struct {
	Field   string
	Message string
	Value   string
}

func (e FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (value %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationResult struct {
	Errors   []FieldError
	Warnings []string
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(field, message string, value ...string) {
	e := FieldError{Field: field, Message: message}
	if len(value) > 0 {
		e.Value = value[0]
	}
	r.Errors = append(r.Errors, e)
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func validWeightClasses() map[string]struct{} {
	classes := make(map[string]struct{}, len(weightClassCanonical))
	for _, canonical := range weightClassCanonical {
		classes[canonical] = struct{}{}
	}
	return classes
}

var knownWeightClasses = validWeightClasses()

// ValidateFighter runs structural checks (errors) and range checks
// (warnings) against a raw fighter record.
func ValidateFighter(f source.RawFighter, now time.Time) ValidationResult {
	var result ValidationResult

	if f.FirstName == "" && f.LastName == "" {
		result.addError("name", "fighter must have at least a first or last name")
	}

	if f.HeightCM != nil && (*f.HeightCM < 140 || *f.HeightCM > 220) {
		result.addWarning("unusual height %.1f cm for %s", *f.HeightCM, f.FullName())
	}
	if f.ReachCM != nil && (*f.ReachCM < 150 || *f.ReachCM > 220) {
		result.addWarning("unusual reach %.1f cm for %s", *f.ReachCM, f.FullName())
	}
	if f.WeightClass != "" {
		if _, ok := knownWeightClasses[f.WeightClass]; !ok {
			result.addWarning("unknown weight class %q", f.WeightClass)
		}
	}
	if f.Stance != "" {
		if _, ok := stanceValues[f.Stance]; !ok {
			result.addWarning("unknown stance %q", f.Stance)
		}
	}
	if f.DateOfBirth != nil {
		age := now.Sub(*f.DateOfBirth).Hours() / 24 / 365.25
		if age < 18 || age > 60 {
			result.addWarning("unusual age %.1f years for %s", age, f.FullName())
		}
	}

	return result
}

func ValidateEvent(e source.RawEvent, now time.Time) ValidationResult {
	var result ValidationResult

	if e.Name == "" {
		result.addError("name", "event must have a name")
	}
	if e.EventDate.IsZero() {
		result.addError("event_date", "event must have a date")
	} else if e.EventDate.After(now) && e.IsCompleted {
		result.addError("is_completed", "future event cannot be marked as completed", e.EventDate.Format("2006-01-02"))
	}

	return result
}

func ValidateFight(f source.RawFight) ValidationResult {
	var result ValidationResult

	if f.Fighter1Name == "" {
		result.addError("fighter1_name", "fight must have fighter 1")
	}
	if f.Fighter2Name == "" {
		result.addError("fighter2_name", "fight must have fighter 2")
	}
	if f.WeightClass == "" {
		result.addError("weight_class", "fight must have a weight class")
	}
	if f.Fighter1Name != "" && f.Fighter2Name != "" &&
		NormalizeName(f.Fighter1Name) == NormalizeName(f.Fighter2Name) {
		result.addError("fighters", "fighter 1 and fighter 2 cannot be the same")
	}

	if f.EndingRound != nil && (*f.EndingRound < 1 || *f.EndingRound > 5) {
		result.addWarning("unusual round number %d", *f.EndingRound)
	}
	if f.ScheduledRounds != 3 && f.ScheduledRounds != 5 {
		result.addWarning("unusual scheduled rounds %d", f.ScheduledRounds)
	}

	return result
}
