package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

// validatedWizard returns a wizard with form values applied and validated,
// mirroring how the presentation layer drives the machine.
func validatedWizard(name, symbol string) *Wizard {
	w := NewWizard()
	w.UpdateForm(FormPatch{Name: str(name), Symbol: str(symbol)})
	w.SetValidation(map[Field]FieldValidity{
		FieldName:   ValidateName(name),
		FieldSymbol: ValidateSymbol(symbol),
	})
	return w
}

func TestWizardStartsAtDetails(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepDetails, w.Step())
	assert.False(t, w.CanGoBack())
}

func TestGoNextBlockedWithoutValidation(t *testing.T) {
	w := NewWizard()
	w.GoNext()
	assert.Equal(t, StepDetails, w.Step())
}

func TestGoNextBlockedOnEmptyName(t *testing.T) {
	w := validatedWizard("", "ABC")
	assert.False(t, w.CanGoNext())
	w.GoNext()
	assert.Equal(t, StepDetails, w.Step())
}

func TestGoNextAdvancesWithValidDetails(t *testing.T) {
	w := validatedWizard("Test", "TST")
	assert.True(t, w.CanGoNext())
	w.GoNext()
	assert.Equal(t, StepSupply, w.Step())
}

func TestGoNextRequiresNonEmptyEvenIfValidationStale(t *testing.T) {
	// A caller that forgot to re-validate after clearing the name is still
	// blocked by the explicit non-empty guard.
	w := validatedWizard("Test", "TST")
	w.validation[FieldName] = FieldValidity{Valid: true}
	w.form.Name = ""
	assert.False(t, w.CanGoNext())
}

func TestGoBackNoOpAtDetails(t *testing.T) {
	w := NewWizard()
	w.GoBack()
	assert.Equal(t, StepDetails, w.Step())
}

func TestGoBackFromReview(t *testing.T) {
	w := wizardAt(t, StepReview)
	w.GoBack()
	assert.Equal(t, StepSupply, w.Step())
}

// wizardAt drives a wizard with a fully valid form to the given ordered step.
func wizardAt(t *testing.T, step Step) *Wizard {
	t.Helper()
	w := NewWizard()
	form := TokenForm{Name: "Test", Symbol: "TST", Decimals: 18, InitialSupply: "1000"}
	w.UpdateForm(FormPatch{
		Name: str(form.Name), Symbol: str(form.Symbol),
		Decimals: &form.Decimals, InitialSupply: str(form.InitialSupply),
	})
	w.SetValidation(ValidateForm(form))
	for w.Step() < step {
		prev := w.Step()
		w.GoNext()
		if w.Step() == prev {
			t.Fatalf("wizard stuck at %s", prev)
		}
	}
	return w
}

func TestWizardWalkToConfirm(t *testing.T) {
	w := wizardAt(t, StepConfirm)
	assert.Equal(t, StepConfirm, w.Step())
	// No successor past confirm.
	w.GoNext()
	assert.Equal(t, StepConfirm, w.Step())
}

func TestUpdateFormFrozenAfterSupply(t *testing.T) {
	w := wizardAt(t, StepReview)
	w.UpdateForm(FormPatch{Name: str("Changed")})
	assert.Equal(t, "Test", w.Form().Name)
}

func TestUpdateFormUppercasesSymbol(t *testing.T) {
	w := NewWizard()
	w.UpdateForm(FormPatch{Symbol: str("mtk")})
	assert.Equal(t, "MTK", w.Form().Symbol)
}

func TestSetValidationMerges(t *testing.T) {
	w := NewWizard()
	w.SetValidation(map[Field]FieldValidity{FieldName: {Valid: true}})
	w.SetValidation(map[Field]FieldValidity{FieldSymbol: {Valid: false, Message: "bad"}})
	v, ok := w.Validity(FieldName)
	assert.True(t, ok)
	assert.True(t, v.Valid)
	v, ok = w.Validity(FieldSymbol)
	assert.True(t, ok)
	assert.False(t, v.Valid)
}

func TestTerminalStepsReachableOnlyFromConfirm(t *testing.T) {
	w := wizardAt(t, StepSupply)
	w.MarkPending()
	assert.Equal(t, StepSupply, w.Step())

	w = wizardAt(t, StepConfirm)
	w.MarkPending()
	assert.Equal(t, StepPending, w.Step())
	w.MarkSuccess("0xabc")
	assert.Equal(t, StepSuccess, w.Step())
	assert.Equal(t, "0xabc", w.TxHash())
}

func TestMarkErrorFromPending(t *testing.T) {
	w := wizardAt(t, StepConfirm)
	w.MarkPending()
	w.MarkError("it broke")
	assert.Equal(t, StepError, w.Step())
	assert.Equal(t, "it broke", w.ErrMsg())
}

func TestResetClearsEverything(t *testing.T) {
	w := wizardAt(t, StepConfirm)
	w.MarkPending()
	w.MarkError("boom")
	w.Reset()
	assert.Equal(t, StepDetails, w.Step())
	assert.Equal(t, TokenForm{}, w.Form())
	assert.Empty(t, w.ErrMsg())
	_, ok := w.Validity(FieldName)
	assert.False(t, ok)
}

func TestGoNextClearsStaleError(t *testing.T) {
	w := validatedWizard("Test", "TST")
	w.errMsg = "stale"
	w.GoNext()
	assert.Empty(t, w.ErrMsg())
}
