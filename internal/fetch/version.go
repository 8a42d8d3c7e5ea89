package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

const versionPath = "version"

// Matches `"1.32"`, `1.32.1` and similar on the first response line.
var reVersion = regexp.MustCompile(`^\s*"?(\d+)\.(\d+)(?:\.(\d+))?`)

// DetectVersion asks the server for its hledger-web version. Servers that
// predate the version endpoint answer 404 and are reported as
// model.LegacyServer.
func DetectVersion(ctx context.Context, client hledger.Client, profile model.Profile) (model.ServerVersion, error) {
	body, err := client.Get(ctx, profile, versionPath)
	if err != nil {
		var nf *hledger.NotFoundError
		if errors.As(err, &nf) {
			return model.LegacyServer, nil
		}
		return model.ServerVersion{}, err
	}
	defer body.Close()

	sc := bufio.NewScanner(body)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return model.ServerVersion{}, fmt.Errorf("reading version: %w", err)
		}
		return model.ServerVersion{}, fmt.Errorf("empty version response")
	}
	line := sc.Text()

	m := reVersion.FindStringSubmatch(line)
	if m == nil {
		return model.ServerVersion{}, fmt.Errorf("unrecognized version response %q", line)
	}
	var v model.ServerVersion
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}
