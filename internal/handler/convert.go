package handler

import (
	"fmt"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
	"github.com/schedgen/schedgen/internal/dto"
	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/scheduling"
)

func buildRequest(body dto.GenerateRequest) (scheduling.Request, filter.Pipeline, error) {
	available, err := parseCodes(body.Available)
	if err != nil {
		return scheduling.Request{}, filter.Pipeline{}, err
	}
	mandatory, err := parseCodes(body.Mandatory)
	if err != nil {
		return scheduling.Request{}, filter.Pipeline{}, err
	}
	blacklisted, err := parseCodes(body.Blacklisted)
	if err != nil {
		return scheduling.Request{}, filter.Pipeline{}, err
	}
	if len(available) == 0 {
		available = mandatory
	}

	exceptions := make([]collision.Exception, 0, len(body.Exceptions))
	for _, e := range body.Exceptions {
		exceptions = append(exceptions, collision.Exception{
			A: collision.Node{Key: e.AKey, ItemIndex: e.AItemIndex},
			B: collision.Node{Key: e.BKey, ItemIndex: e.BItemIndex},
		})
	}

	req := scheduling.Request{
		Available:   available,
		Mandatory:   mandatory,
		Blacklisted: blacklisted,
		Exceptions:  exceptions,
	}

	filters := filter.New(
		filter.SubjectCount{Range: rangeFromPointers(body.SubjectCountMin, body.SubjectCountMax)},
		filter.CreditCount{Range: rangeFromPointers(body.CreditMin, body.CreditMax)},
	)

	return req, filters, nil
}

func parseCodes(raw []string) ([]catalog.Code, error) {
	codes := make([]catalog.Code, 0, len(raw))
	for _, s := range raw {
		c, err := catalog.ParseCode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid subject code %q: %w", s, err)
		}
		codes = append(codes, c)
	}
	return codes, nil
}

func rangeFromPointers(min, max *int) filter.Range {
	switch {
	case min == nil && max == nil:
		return filter.Any()
	case min != nil && max == nil:
		return filter.AtLeast(*min)
	case min == nil && max != nil:
		return filter.AtMost(*max)
	default:
		return filter.Inclusive(*min, *max)
	}
}
