package service

import (
	"fmt"
	"strconv"
	"strings"

	"inc/app_error"
	"inc/repository"

	"github.com/mitchellh/mapstructure"
)

// projectDetails are the fields of step 1 that shape the project and the payment.
type projectDetails struct {
	Title      string `mapstructure:"title"`
	Abstract   string `mapstructure:"abstract"`
	Domain     string `mapstructure:"domain"`
	Mode       string `mapstructure:"mode"`
	Techfiesta bool   `mapstructure:"techfiesta"`
	TeamId     string `mapstructure:"team_id"`
}

type institutionFlags struct {
	IsPICT          bool `mapstructure:"isPICT"`
	IsInternational bool `mapstructure:"isInternational"`
}

type paymentDetails struct {
	PaymentId string `mapstructure:"payment_id"`
}

// decodePayload reads loosely typed form values ("1", 1, true) into out.
func decodePayload(payload repository.JSONMap, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(payload)); err != nil {
		return app_error.ValidationFailed("invalid payload: %v", err)
	}
	return nil
}

// scoreTotal sums the numeric score values; anything non-numeric is rejected.
func scoreTotal(scores repository.JSONMap) (float64, error) {
	total := 0.0
	for criterion, value := range scores {
		switch v := value.(type) {
		case float64:
			total += v
		case int:
			total += float64(v)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return 0, app_error.ValidationFailed("score %s is not a number", criterion)
			}
			total += f
		default:
			return 0, app_error.ValidationFailed("score %s is not a number", criterion)
		}
	}
	return total, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cleanIds(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func formatRecipient(member repository.Member) string {
	if member.Name == "" {
		return member.Email
	}
	return fmt.Sprintf("%s <%s>", member.Name, member.Email)
}
