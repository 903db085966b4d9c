package schedule

import (
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

const maxDescriptionLen = 255

func validateTemplate(t transaction.Details) error {
	if !t.Type.Valid() {
		return &recurrence.ValidationError{Field: "type", Reason: "must be expense, income or transfer"}
	}

	if t.Amount <= 0 {
		return &recurrence.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	if len(t.Description) > maxDescriptionLen {
		return &recurrence.ValidationError{Field: "description", Reason: "is too long"}
	}

	switch t.Type {
	case transaction.TypeTransfer:
		if t.FromAccountID == nil || t.ToAccountID == nil {
			return &recurrence.ValidationError{Field: "from_account_id", Reason: "transfers need both accounts"}
		}

		if *t.FromAccountID == *t.ToAccountID {
			return &recurrence.ValidationError{Field: "to_account_id", Reason: "must differ from the source account"}
		}
	default:
		if t.AccountID == nil {
			return &recurrence.ValidationError{Field: "account_id", Reason: "is required"}
		}
	}

	return nil
}

func normalizeTemplate(t transaction.Details) transaction.Details {
	t.Description = strings.TrimSpace(t.Description)

	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}

		tags = append(tags, tag)
	}

	t.Tags = tags

	return t
}

// cloneTemplate copies t so a materialized transaction never aliases the
// series' tag slice.
func cloneTemplate(t transaction.Details) transaction.Details {
	t.Tags = slices.Clone(t.Tags)
	return t
}
