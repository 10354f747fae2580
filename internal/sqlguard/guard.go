// Package sqlguard screens raw SQL filter fragments supplied by users before
// they are spliced into compiled statements.
package sqlguard

import (
	"log/slog"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"parquet-explorer/internal/domain"
)

// Finding describes a fragment that libinjection classifies as SQL injection.
type Finding struct {
	Fingerprint string
	Fragment    string
}

// Inspect runs libinjection over the fragment. Returns nil when clean.
func Inspect(fragment string) *Finding {
	isSQLi, fingerprint := libinjection.IsSQLi(fragment)
	if !isSQLi {
		return nil
	}
	return &Finding{Fingerprint: string(fingerprint), Fragment: fragment}
}

// CheckFilter rejects fragments that could escape a single boolean
// expression: a statement terminator or a comment opener outside of quoted
// text. Quoted strings and quoted identifiers may contain anything.
func CheckFilter(fragment string) error {
	var quote byte
	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		if quote != 0 {
			if c == quote {
				if i+1 < len(fragment) && fragment[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ';':
			return domain.ErrValidation("filter must be a single expression: ';' is not allowed")
		case '-':
			if i+1 < len(fragment) && fragment[i+1] == '-' {
				return domain.ErrValidation("filter must not contain SQL comments")
			}
		case '/':
			if i+1 < len(fragment) && fragment[i+1] == '*' {
				return domain.ErrValidation("filter must not contain SQL comments")
			}
		}
	}
	return nil
}

// Guard applies CheckFilter and logs libinjection findings. Findings are not
// fatal on their own: ordinary comparisons such as "a = 'x' OR b = 1" also
// match injection fingerprints.
type Guard struct {
	logger *slog.Logger
}

// New creates a Guard.
func New(logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{logger: logger.With("component", "sqlguard")}
}

// CheckFilter validates a WHERE fragment. Empty fragments are accepted.
func (g *Guard) CheckFilter(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	if err := CheckFilter(fragment); err != nil {
		g.logger.Warn("rejected filter", "error", err)
		return err
	}
	if f := Inspect(fragment); f != nil {
		g.logger.Warn("filter matches injection fingerprint", "fingerprint", f.Fingerprint)
	}
	return nil
}
