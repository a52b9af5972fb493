package inline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/track"
)

// Result is one catalog hit in JSON output.
type Result struct {
	// Catalog is the id of the catalog the result came from.
	Catalog     string      `json:"catalog"`
	Track       track.Track `json:"track"`
	Description string      `json:"description,omitempty"`
	ViewCount   *int64      `json:"view_count,omitempty"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
}

// Output is the document written in JSON mode.
type Output struct {
	Query string `json:"query,omitempty"`
	// NextPage maps catalog id to the token of its next page. Catalogs without more results are omitted.
	NextPage map[string]string `json:"next_page,omitempty"`
	Result   []*Result         `json:"result"`
}

func newResult(catalogID string, r catalog.Result) *Result {
	return &Result{
		Catalog:     catalogID,
		Track:       r.Track(),
		Description: r.Description,
		ViewCount:   r.ViewCount.ToPointer(),
		PublishedAt: r.PublishedAt.ToPointer(),
	}
}

func writeJson(out io.Writer, output *Output) error {
	if output.Result == nil {
		output.Result = []*Result{}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
