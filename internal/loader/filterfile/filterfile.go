// Package filterfile parses the plain-text code-set files used by the CLI
// to name the available, mandatory, and blacklisted subjects: one code per
// line, "#"-prefixed lines are comments, blank lines are skipped, and a
// code is taken from the first five trimmed characters of the line.
package filterfile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
)

// Parse reads a code-set file from r and returns the codes it names, in
// file order, de-duplicated.
func Parse(r io.Reader) ([]catalog.Code, error) {
	var codes []catalog.Code
	seen := make(map[catalog.Code]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) < 5 {
			return nil, pkgerrors.NewParseError("filterfile: line too short to contain a code: "+line, nil)
		}
		code, err := catalog.ParseCode(line[:5])
		if err != nil {
			return nil, pkgerrors.NewParseError("filterfile: invalid code in line "+line, err)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.NewIOError("filterfile: reading code-set file", err)
	}
	return codes, nil
}

// Intersect returns the codes common to every set, preserving the order
// they first appear in sets[0]. Used to combine multiple --files arguments
// the way the reference CLI does: a subject must be available in all of
// them to be considered available at all.
func Intersect(sets [][]catalog.Code) []catalog.Code {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[catalog.Code]int)
	for _, set := range sets {
		seenInSet := make(map[catalog.Code]bool, len(set))
		for _, c := range set {
			if seenInSet[c] {
				continue
			}
			seenInSet[c] = true
			counts[c]++
		}
	}
	var out []catalog.Code
	for _, c := range sets[0] {
		if counts[c] == len(sets) {
			alreadyAdded := false
			for _, o := range out {
				if o == c {
					alreadyAdded = true
					break
				}
			}
			if !alreadyAdded {
				out = append(out, c)
			}
		}
	}
	return out
}

// ParseExceptions reads a collision-exception file from r: one exception per
// line, "keyA,itemA,keyB,itemB", naming a pair of (group key, item index)
// nodes that the collision index should treat as non-colliding despite the
// schedule algebra saying otherwise. Blank and "#"-prefixed lines are
// skipped, matching Parse.
func ParseExceptions(r io.Reader) ([]collision.Exception, error) {
	var exceptions []collision.Exception

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, pkgerrors.NewParseError("filterfile: exception line must have 4 comma-separated fields: "+line, nil)
		}
		aIdx, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, pkgerrors.NewParseError("filterfile: invalid item index in exception line "+line, err)
		}
		bIdx, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, pkgerrors.NewParseError("filterfile: invalid item index in exception line "+line, err)
		}
		exceptions = append(exceptions, collision.Exception{
			A: collision.Node{Key: strings.TrimSpace(fields[0]), ItemIndex: aIdx},
			B: collision.Node{Key: strings.TrimSpace(fields[2]), ItemIndex: bIdx},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.NewIOError("filterfile: reading exception file", err)
	}
	return exceptions, nil
}

// Difference returns the codes in a that are not in b.
func Difference(a, b []catalog.Code) []catalog.Code {
	exclude := make(map[catalog.Code]bool, len(b))
	for _, c := range b {
		exclude[c] = true
	}
	var out []catalog.Code
	for _, c := range a {
		if !exclude[c] {
			out = append(out, c)
		}
	}
	return out
}
