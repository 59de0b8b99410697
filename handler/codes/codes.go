package codes

import (
	"errors"
	"strconv"

	"comptroller/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// Of returns the custom code carried by twerr, falling back to Get
func Of(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}

	return Get(twerr.Code())
}

// Twirp converts err into a twirp error. Lending core failures keep their
// ErrorCode as the custom code.
func Twirp(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr
	}

	var coreErr *core.Error
	var code core.ErrorCode
	if !errors.As(err, &coreErr) && !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	code = core.CodeOf(err)
	twerr = twirp.NewError(twirpCode(code), err.Error())
	if info := core.InfoOf(err); info != core.InfoNone {
		twerr = twerr.WithMeta("info", string(info))
	}

	return twerr.WithMeta(CustomCodeKey, code.String())
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrUnauthorized:
		return twirp.PermissionDenied
	case core.ErrReentered:
		return twirp.Aborted
	case core.ErrMarketNotListed:
		return twirp.NotFound
	case core.ErrMarketAlreadyListed:
		return twirp.AlreadyExists
	case core.ErrInvalidAmount,
		core.ErrInvalidMarket,
		core.ErrInvalidAccountPair,
		core.ErrInvalidCloseAmount,
		core.ErrInvalidCollateralFactor,
		core.ErrInvalidLiquidationThreshold,
		core.ErrInvalidCloseFactor,
		core.ErrInvalidLiquidationIncentive,
		core.ErrInvalidReserveFactor,
		core.ErrInvalidProtocolSeizeShare:
		return twirp.InvalidArgument
	}

	switch code.Kind() {
	case core.KindMath:
		return twirp.OutOfRange
	case core.KindPrice:
		return twirp.Unavailable
	case core.KindFreshness, core.KindPolicy, core.KindRateModel:
		return twirp.FailedPrecondition
	default:
		return twirp.Internal
	}
}
