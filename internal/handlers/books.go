package handlers

import (
	"bufio"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/lehigh-university-libraries/booktab/internal/logging"
)

// HandleSearch streams the books matching q as {"books":[...],"count":n}.
// Queries shorter than the configured minimum list the whole catalog.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(query) < h.cfg.Search.MinLength {
		query = ""
	}

	cursor := h.catalog.Search(query)
	defer cursor.Close()

	w.Header().Set("Content-Type", "application/json")
	bw := bufio.NewWriter(w)

	bw.WriteString(`{"books":[`)
	count := 0
	for m := range cursor.Seq() {
		data, err := json.Marshal(m.Book)
		if err != nil {
			logging.FromContext(r.Context()).Error("Unable to encode book", "err", err)
			break
		}
		if count > 0 {
			bw.WriteByte(',')
		}
		bw.Write(data)
		count++
	}
	bw.WriteString(`],"count":`)
	bw.WriteString(strconv.Itoa(count))
	bw.WriteString("}\n")

	if err := bw.Flush(); err != nil {
		logging.FromContext(r.Context()).Error("Unable to write search response", "err", err)
	}
}
