package config

import (
	"fmt"
	"net/http"
	"os"
	"reflect"

	"github.com/pixelcanvas/pixels/internal/valueparser"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// GetEnv retrieves the value of an environment variable, parses it to the specified type T,
// and returns it. If the variable is not set, it returns a fallback value.
// If the variable is required and not set, it logs and returns an error.
//
// Example usage:
//
//	myInt, err := GetEnv("MY_ENV_VAR", 42, true, log)
//	if err != nil {
//	    // handle error
//	}
func GetEnv[T valueparser.ParsableType](
	key string,
	fallback T,
	required bool,
	log yalogger.Logger,
) (T, yaerrors.Error) {
	return GetEnvWithCustomType(
		key,
		fallback,
		required,
		reflect.TypeOf(new(T)).Elem(),
		log,
	)
}

// GetEnvWithCustomType retrieves the value of an environment variable, parses it to the specified type T,
// using the provided reflect.Type for types with custom Unmarshal logic (such as yalogger.Level).
func GetEnvWithCustomType[T valueparser.ParsableType](
	key string,
	fallback T,
	required bool,
	vType reflect.Type,
	log yalogger.Logger,
) (T, yaerrors.Error) {
	safetyCheck(&log)

	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := valueparser.ParseValueWithCustomType[T](value, vType); err == nil {
			return parsed, nil
		}
	}

	if required {
		return fallback, yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrValueIsRequired,
			fmt.Sprintf("get env: environment variable %s is required", key),
			log,
		)
	}

	log.Warnf(
		"Environment variable %s is not set or failed to parse, using default value %v",
		key,
		fallback,
	)

	return fallback, nil
}
