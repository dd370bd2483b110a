package warps

import (
	"log/slog"

	"github.com/samber/oops"
)

// PermEconomyDisobey exempts an actor from every fee.
const PermEconomyDisobey = "warps.economy.disobey"

// Fee identifies what an actor is charged for.
type Fee int

const (
	// FeeWarpTo is charged for teleporting oneself to a warp.
	FeeWarpTo Fee = iota
	// FeeWarpPlayer is charged for teleporting another player to a warp.
	FeeWarpPlayer
	// FeeWarpSignUse is charged for using a warp sign.
	FeeWarpSignUse

	feeCount
)

// String returns the string representation of the fee, as used in settings.
func (f Fee) String() string {
	switch f {
	case FeeWarpTo:
		return "warp-to"
	case FeeWarpPlayer:
		return "warp-player"
	case FeeWarpSignUse:
		return "warp-sign-use"
	default:
		return "unknown"
	}
}

// ParseFee returns the fee with the given settings name.
func ParseFee(name string) (Fee, bool) {
	for f := Fee(0); f < feeCount; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// Economy charges actors for fees.
type Economy interface {
	// HasAtLeast reports whether a can pay fee.
	HasAtLeast(a Actor, fee Fee) bool

	// Withdraw charges fee from a.
	Withdraw(a Actor, fee Fee) error
}

// Wallet holds the balances of actors. It is usually backed by an economy plugin
// or a database.
type Wallet interface {
	Balance(a Actor) (float64, error)
	Withdraw(a Actor, amount float64) error
}

// FeeProvider returns the amount an actor pays for a fee.
type FeeProvider interface {
	Amount(a Actor, fee Fee) float64
}

// FeeEconomy is an Economy charging the amounts of a FeeProvider from a Wallet.
type FeeEconomy struct {
	wallet Wallet
	fees   FeeProvider
}

// NewFeeEconomy creates an economy charging fees from wallet.
func NewFeeEconomy(wallet Wallet, fees FeeProvider) *FeeEconomy {
	return &FeeEconomy{wallet: wallet, fees: fees}
}

// HasAtLeast implements Economy. Free fees are always affordable; a wallet that
// cannot report a balance makes every other fee unaffordable.
func (e *FeeEconomy) HasAtLeast(a Actor, fee Fee) bool {
	amount := e.fees.Amount(a, fee)
	if amount <= 0 {
		return true
	}
	balance, err := e.wallet.Balance(a)
	if err != nil {
		logError(slog.Default(), "warps: balance lookup failed", oops.In("economy").
			With("actor", a.Name(), "fee", fee.String()).
			Wrap(err))
		return false
	}
	return balance >= amount
}

// Withdraw implements Economy.
func (e *FeeEconomy) Withdraw(a Actor, fee Fee) error {
	amount := e.fees.Amount(a, fee)
	if amount <= 0 {
		return nil
	}
	if err := e.wallet.Withdraw(a, amount); err != nil {
		return oops.In("economy").
			Code("WITHDRAW_FAILED").
			With("actor", a.Name(), "fee", fee.String(), "amount", amount).
			Wrapf(err, "withdraw %s", fee)
	}
	return nil
}
