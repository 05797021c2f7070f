package valueparser

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// ConvertValue converts a reflect.Value to the specified target type.
// If the value is invalid, it returns a zero value of the target type and
// an error. If the value is valid but not convertible, an error is returned.
func ConvertValue(val reflect.Value, targetType reflect.Type) (reflect.Value, yaerrors.Error) {
	if !val.IsValid() {
		return reflect.Zero(targetType), yaerrors.FromError(
			http.StatusInternalServerError,
			ErrInvalidValue,
			"convert value: value is invalid",
		)
	}

	if val.Type().ConvertibleTo(targetType) {
		return val.Convert(targetType), nil
	}

	return reflect.Zero(targetType), yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnconvertibleType,
		fmt.Sprintf(
			"convert value: %s is not convertible to %s",
			val.Type().String(),
			targetType.String(),
		),
	)
}
