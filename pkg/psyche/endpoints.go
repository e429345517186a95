package psyche

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pru/pkg/remote"
)

const (
	feedType = "json"
	// The API expects "date_received+desc"; url.Values encodes the space as '+'.
	orderDateReceivedDesc = "date_received desc"
)

// QueryParams builds the catalog query string for q. The page parameter is
// only present when q targets a single page.
func QueryParams(q remote.Query) url.Values {
	params := url.Values{}
	params.Set("feedtype", feedType)
	params.Set("per_page", strconv.Itoa(q.NumPerPage))
	params.Set("order", orderDateReceivedDesc)
	params.Set("search", CameraSearch(q.Cameras))
	params.Set("condition_1", fmt.Sprintf("%s:date_received:gte", q.MinDate))
	params.Set("condition_2", fmt.Sprintf("%s:date_received:lte", q.MaxDate))

	if q.HasPage() {
		params.Set("page", strconv.Itoa(*q.Page))
	}
	return params
}

// CameraSearch OR-joins instrument tokens into the camera search clause.
func CameraSearch(tokens []string) string {
	return fmt.Sprintf("(%s):camera", strings.Join(tokens, "|"))
}
