package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

func TestValidateTemplate(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	type testCase struct {
		name      string
		tmpl      transaction.Details
		wantField string
	}

	tests := []testCase{
		{
			name: "Expense",
			tmpl: transaction.Details{Type: transaction.TypeExpense, Amount: 100, AccountID: &a},
		},
		{
			name: "Transfer",
			tmpl: transaction.Details{Type: transaction.TypeTransfer, Amount: 100, FromAccountID: &a, ToAccountID: &b},
		},
		{
			name:      "UnknownType",
			tmpl:      transaction.Details{Type: "refund", Amount: 100, AccountID: &a},
			wantField: "type",
		},
		{
			name:      "NegativeAmount",
			tmpl:      transaction.Details{Type: transaction.TypeIncome, Amount: -1, AccountID: &a},
			wantField: "amount",
		},
		{
			name:      "IncomeWithoutAccount",
			tmpl:      transaction.Details{Type: transaction.TypeIncome, Amount: 100},
			wantField: "account_id",
		},
		{
			name:      "TransferMissingTarget",
			tmpl:      transaction.Details{Type: transaction.TypeTransfer, Amount: 100, FromAccountID: &a},
			wantField: "from_account_id",
		},
		{
			name:      "TransferToSelf",
			tmpl:      transaction.Details{Type: transaction.TypeTransfer, Amount: 100, FromAccountID: &a, ToAccountID: &a},
			wantField: "to_account_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTemplate(tt.tmpl)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *recurrence.ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}

func TestNormalizeTemplate(t *testing.T) {
	got := normalizeTemplate(transaction.Details{
		Description: "  Rent  ",
		Tags:        []string{"home", " home ", "", "bills"},
	})

	assert.Equal(t, "Rent", got.Description)
	assert.Equal(t, []string{"home", "bills"}, got.Tags)
}

func TestCloneTemplate(t *testing.T) {
	orig := transaction.Details{Tags: []string{"a"}}

	c := cloneTemplate(orig)
	c.Tags[0] = "b"

	assert.Equal(t, "a", orig.Tags[0])
}
