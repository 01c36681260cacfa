package apirecordsv1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fulldump/box"
)

var ErrInvalidRecordId = errors.New("invalid record id")

// CaloriesText accepts a JSON string ("100") or a JSON number (100) and
// keeps it as typed, parsing is up to the records package.
type CaloriesText string

func (c *CaloriesText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		s := ""
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*c = CaloriesText(s)
		return nil
	}
	if string(data) == "null" {
		*c = ""
		return nil
	}
	*c = CaloriesText(data)
	return nil
}

type recordRequest struct {
	Name     string       `json:"name"`
	Calories CaloriesText `json:"calories"`
}

func getRecordId(ctx context.Context) (int, error) {
	param := box.GetUrlParameter(ctx, "recordId")
	id, err := strconv.Atoi(param)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w '%s'", ErrInvalidRecordId, param)
	}
	return id, nil
}
