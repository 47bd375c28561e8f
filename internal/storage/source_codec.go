package storage

import (
	"strings"

	"github.com/0x0BSoD/newsApp/internal/model"
)

// EncodeSource flattens a source into the "id, name" column format.
// Commas are not escaped.
func EncodeSource(src model.Source) string {
	return src.ID + ", " + src.Name
}

// DecodeSource reverses EncodeSource by splitting on commas: the id is the
// first part and the name the second, without its leading space. A name that
// itself contains a comma is cut at that comma.
//
// TODO: move source into separate id/name columns once existing news_db files
// no longer need to be read; names like "BBC, News" do not survive a round trip.
func DecodeSource(s string) model.Source {
	parts := strings.Split(s, ",")

	src := model.Source{ID: parts[0]}
	if len(parts) > 1 {
		src.Name = strings.TrimPrefix(parts[1], " ")
	}
	return src
}
