package scheduling

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
)

// ContentHash derives a stable cache key from a catalog and a group
// partition request. Any change to the set of available, mandatory, or
// blacklisted codes, the exception list, or the catalog's subject codes,
// commission counts or commission meeting spans changes the hash, so a
// collision.Index cached under
// one hash can never be served back for a catalog or partition it wasn't
// built from.
func ContentHash(cat catalog.Catalog, req Request) string {
	var b strings.Builder
	for _, s := range cat.Subjects {
		b.WriteString(s.Code.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(s.Commissions)))
		b.WriteByte(';')
		for _, com := range s.Commissions {
			for d, day := range com.Schedule.Days {
				for _, t := range day.Tasks() {
					b.WriteString(strconv.Itoa(d))
					b.WriteByte('/')
					b.WriteString(t.Span.String())
					b.WriteByte(';')
				}
			}
			b.WriteByte('#')
		}
	}
	b.WriteByte('|')
	writeCodes(&b, req.Available)
	b.WriteByte('|')
	writeCodes(&b, req.Mandatory)
	b.WriteByte('|')
	writeCodes(&b, req.Blacklisted)
	b.WriteByte('|')
	writeExceptions(&b, req.Exceptions)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeCodes(b *strings.Builder, codes []catalog.Code) {
	sorted := append([]catalog.Code(nil), codes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for _, c := range sorted {
		b.WriteString(c.String())
		b.WriteByte(',')
	}
}

func writeExceptions(b *strings.Builder, exceptions []collision.Exception) {
	sorted := append([]collision.Exception(nil), exceptions...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].A.Key != sorted[j].A.Key {
			return sorted[i].A.Key < sorted[j].A.Key
		}
		return sorted[i].A.ItemIndex < sorted[j].A.ItemIndex
	})
	for _, ex := range sorted {
		b.WriteString(ex.A.Key)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(ex.A.ItemIndex))
		b.WriteByte(',')
		b.WriteString(ex.B.Key)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(ex.B.ItemIndex))
		b.WriteByte(';')
	}
}
