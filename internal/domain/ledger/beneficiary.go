package ledger

import (
	"slices"

	"github.com/samber/lo"
)

// Beneficiary is a named link to another account usable as a transfer target
type Beneficiary struct {
	Name     string
	Nickname string
	Account  *Account // shared handle; the linked account's lifecycle is not owned here
}

// AddBeneficiary inserts or overwrites the link under name. An empty nickname leaves
// any existing nickname for name untouched.
func (a *Account) AddBeneficiary(name string, account *Account, nickname string) error {
	if account == nil {
		return ErrNilAccount
	}
	return a.mutate(func() (change, error) {
		a.beneficiaries[name] = account
		if nickname != "" {
			a.beneficiaryNicknames[name] = nickname
		}
		return change{description: "Added beneficiary " + name}, nil
	})
}

// RemoveBeneficiary deletes the link under name together with its nickname
func (a *Account) RemoveBeneficiary(name string) error {
	return a.mutate(func() (change, error) {
		if _, ok := a.beneficiaries[name]; !ok {
			return change{}, ErrBeneficiaryNotFound{Name: name}
		}
		delete(a.beneficiaries, name)
		delete(a.beneficiaryNicknames, name)
		return change{description: "Removed beneficiary " + name}, nil
	})
}

// SetBeneficiaryNickname sets the display nickname of an existing beneficiary
func (a *Account) SetBeneficiaryNickname(name, nickname string) error {
	return a.mutate(func() (change, error) {
		if _, ok := a.beneficiaries[name]; !ok {
			return change{}, ErrBeneficiaryNotFound{Name: name}
		}
		a.beneficiaryNicknames[name] = nickname
		return change{description: "Set nickname for beneficiary " + name + " to " + nickname}, nil
	})
}

// Beneficiary resolves a beneficiary by name
func (a *Account) Beneficiary(name string) (Beneficiary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	account, ok := a.beneficiaries[name]
	if !ok {
		return Beneficiary{}, false
	}
	return Beneficiary{Name: name, Nickname: a.beneficiaryNicknames[name], Account: account}, true
}

// Beneficiaries lists all beneficiaries ordered by name
func (a *Account) Beneficiaries() []Beneficiary {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := lo.Keys(a.beneficiaries)
	slices.Sort(names)
	return lo.Map(names, func(name string, _ int) Beneficiary {
		return Beneficiary{Name: name, Nickname: a.beneficiaryNicknames[name], Account: a.beneficiaries[name]}
	})
}
