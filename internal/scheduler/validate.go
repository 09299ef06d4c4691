package scheduler

import (
	"fmt"

	"github.com/me/cpusim/pkg/model"
)

// Validate rejects input the engine must not simulate. The returned error is a
// *model.APIError listing every offending field.
func Validate(processes []model.Process, policy model.Policy) error {
	if details := CheckInput(processes, policy); len(details) > 0 {
		return model.NewValidationError("invalid simulation input", details...)
	}
	return nil
}

// CheckInput returns one FieldError per problem found in processes and policy.
func CheckInput(processes []model.Process, policy model.Policy) []model.FieldError {
	var details []model.FieldError
	add := func(field, format string, args ...any) {
		details = append(details, model.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if policy == nil {
		add("policy", "policy is required")
	} else if quantum, overhead, ok := model.Slicing(policy); ok {
		if quantum <= 0 {
			add("quantum", "must be positive for %s, got %d", policy.Name(), quantum)
		}
		if overhead <= 0 {
			add("overhead", "must be positive for %s, got %d", policy.Name(), overhead)
		}
	}

	if len(processes) == 0 {
		add("processes", "at least one process is required")
	}

	seen := make(map[model.ProcessID]int, len(processes))
	for i, p := range processes {
		field := fmt.Sprintf("processes[%d]", i)
		if p.ID <= model.NoProcess {
			add(field+".id", "must be positive, got %d", p.ID)
		} else if prev, dup := seen[p.ID]; dup {
			add(field+".id", "duplicate id %d (also processes[%d])", p.ID, prev)
		} else {
			seen[p.ID] = i
		}
		if p.Arrival < 0 {
			add(field+".arrival", "must not be negative, got %d", p.Arrival)
		}
		if p.Service <= 0 {
			add(field+".service", "must be positive, got %d", p.Service)
		}
		if p.Pages <= 0 {
			add(field+".pages", "must be positive, got %d", p.Pages)
		}
		if p.HasDeadline() && *p.Deadline < 0 {
			add(field+".deadline", "must not be negative, got %d", *p.Deadline)
		}
	}
	return details
}
