package cardpoint_test

import (
	"testing"

	"github.com/fwojciec/cardpoint"
	"github.com/stretchr/testify/assert"
)

func TestRecordSet_Annotate(t *testing.T) {
	t.Parallel()

	t.Run("stamps label and canonical url", func(t *testing.T) {
		t.Parallel()

		rs := &cardpoint.RecordSet{
			Source:  &cardpoint.Source{Label: "TEST", URL: "http://example.test/page"},
			Records: []cardpoint.Record{{"name": "サイゼリヤ"}, {"name": "ガスト"}},
		}

		rs.Annotate()

		for _, r := range rs.Records {
			assert.Equal(t, "TEST", r["card"])
			assert.Equal(t, "http://example.test/page", r["source_url"])
		}
	})

	t.Run("resolves relative list url against source", func(t *testing.T) {
		t.Parallel()

		rs := &cardpoint.RecordSet{
			Source: &cardpoint.Source{Label: "TEST", URL: "http://example.test/point/page.html"},
			Records: []cardpoint.Record{
				{"name": "a", "official_list_url": "/list"},
				{"name": "b", "official_list_url": "shops.html"},
				{"name": "c", "url": "https://other.test/x"},
			},
		}

		rs.Annotate()

		assert.Equal(t, "http://example.test/list", rs.Records[0]["official_list_url"])
		assert.Equal(t, "http://example.test/point/shops.html", rs.Records[1]["official_list_url"])
		assert.Equal(t, "https://other.test/x", rs.Records[2]["url"])
	})

	t.Run("leaves non-string url fields alone", func(t *testing.T) {
		t.Parallel()

		rs := &cardpoint.RecordSet{
			Source:  &cardpoint.Source{Label: "TEST", URL: "http://example.test/"},
			Records: []cardpoint.Record{{"name": "a", "official_list_url": nil}},
		}

		rs.Annotate()

		assert.Nil(t, rs.Records[0]["official_list_url"])
	})

	t.Run("adds source caution once", func(t *testing.T) {
		t.Parallel()

		rs := &cardpoint.RecordSet{
			Source: &cardpoint.Source{Label: "SMBC", URL: "http://example.test/", Caution: "タッチ決済のみ"},
			Records: []cardpoint.Record{
				{"name": "a"},
				{"name": "b", "caution": "一部店舗を除く"},
				{"name": "c", "caution": "タッチ決済のみ"},
			},
		}

		rs.Annotate()

		assert.Equal(t, "タッチ決済のみ", rs.Records[0]["caution"])
		assert.Equal(t, "一部店舗を除く タッチ決済のみ", rs.Records[1]["caution"])
		assert.Equal(t, "タッチ決済のみ", rs.Records[2]["caution"])
	})
}

func TestRecord_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ローソン", cardpoint.Record{"name": "ローソン"}.Name())
	assert.Empty(t, cardpoint.Record{"name": 42}.Name())
	assert.Empty(t, cardpoint.Record{}.Name())
}
