package scene

import "fmt"

// ValidationSeverity indicates whether a finding breaks a model invariant or
// is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // model invariant violated
	SeverityWarning                           // enforced elsewhere, informational here
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// zeroSegment is the distance below which two consecutive wall points are
// treated as the same point.
const zeroSegment = 1e-9

// ValidationError describes a single validation finding.
type ValidationError struct {
	ObjectID ID                 // offending object (zero if collection-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ObjectID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %s: %s", e.Severity, e.ObjectID.Short(), e.Message)
}

// Validate checks the invariants of a committed collection and returns every
// finding. An empty slice means the collection is valid. Validate never
// mutates c.
func Validate(c Collection) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIDs(c)...)
	errs = append(errs, validateObjects(c)...)
	errs = append(errs, validateSelection(c)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateIDs(c Collection) []ValidationError {
	var errs []ValidationError
	seen := make(map[ID]bool, len(c))
	for _, o := range c {
		if o.ID.IsZero() {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("%s object has an empty id", o.Type),
				Severity: SeverityError,
			})
			continue
		}
		if seen[o.ID] {
			errs = append(errs, ValidationError{
				ObjectID: o.ID,
				Message:  "duplicate id",
				Severity: SeverityError,
			})
		}
		seen[o.ID] = true
	}
	return errs
}

func validateObjects(c Collection) []ValidationError {
	var errs []ValidationError
	for _, o := range c {
		switch {
		case o.Type == ElementNone:
			errs = append(errs, ValidationError{
				ObjectID: o.ID,
				Message:  "committed object has type none",
				Severity: SeverityError,
			})
		case o.Type == ElementWall:
			if o.Points != nil && len(o.Points) < 2 {
				errs = append(errs, ValidationError{
					ObjectID: o.ID,
					Message:  fmt.Sprintf("wall has %d points, need at least 2", len(o.Points)),
					Severity: SeverityError,
				})
			}
			for i := 1; i < len(o.Points); i++ {
				if o.Points[i].ApproxEqual(o.Points[i-1], zeroSegment) {
					errs = append(errs, ValidationError{
						ObjectID: o.ID,
						Message:  fmt.Sprintf("wall segment %d has zero length", i),
						Severity: SeverityWarning,
					})
				}
			}
		case len(o.Points) > 0:
			errs = append(errs, ValidationError{
				ObjectID: o.ID,
				Message:  fmt.Sprintf("%s object carries polyline points", o.Type),
				Severity: SeverityError,
			})
		}

		if o.Scale.X <= 0 || o.Scale.Y <= 0 || o.Scale.Z <= 0 {
			errs = append(errs, ValidationError{
				ObjectID: o.ID,
				Message:  fmt.Sprintf("non-positive scale %s", o.Scale),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateSelection warns when more than one object is selected. The model
// permits it; the selection controller is what keeps it single.
func validateSelection(c Collection) []ValidationError {
	n := 0
	for _, o := range c {
		if o.Selected {
			n++
		}
	}
	if n > 1 {
		return []ValidationError{{
			Message:  fmt.Sprintf("%d objects selected, expected at most 1", n),
			Severity: SeverityWarning,
		}}
	}
	return nil
}
