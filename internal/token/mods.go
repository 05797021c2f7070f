package token

import (
	"bufio"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// LoadMods reads a newline-delimited file of user ids that should be
// promoted to moderator the first time they authenticate, matching the
// original service's mods.txt allow-list. Blank lines and lines starting
// with '#' are ignored.
func LoadMods(path string) (map[int64]struct{}, yaerrors.Error) {
	mods := make(map[int64]struct{})

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mods, nil
		}

		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "token: open mods file")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, parseErr := strconv.ParseInt(line, 10, 64)
		if parseErr != nil {
			return nil, yaerrors.FromError(
				http.StatusInternalServerError,
				parseErr,
				"token: parse mods file line \""+line+"\"",
			)
		}

		mods[id] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "token: read mods file")
	}

	return mods, nil
}
