package export

import (
	"strings"
	"testing"

	"github.com/cidrlab/slrkit/internal/record"
)

func sampleRecord() record.Record {
	return record.Record{
		DOI:   "10.1145/3297858.3304076",
		Title: "Drift Detection in Multi-Cloud Deployments",
		Authors: []record.Author{
			{Name: "Hana Kim"},
			{Name: "Luis Moreno"},
		},
		Year:  "2024",
		Venue: "Journal of Cloud Engineering",
	}
}

func TestToBibTeX(t *testing.T) {
	got := ToBibTeX(sampleRecord())

	wants := []string{
		"@article{kim2024drift,",
		"author = {Hana Kim and Luis Moreno},",
		"title = {Drift Detection in Multi-Cloud Deployments},",
		"journal = {Journal of Cloud Engineering},",
		"year = {2024},",
		"doi = {10.1145/3297858.3304076},",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestToBibTeXProceedings(t *testing.T) {
	rec := sampleRecord()
	rec.Venue = "Proceedings of the Cloud Operations Symposium"

	got := ToBibTeX(rec)

	if !strings.HasPrefix(got, "@inproceedings{") {
		t.Errorf("expected an inproceedings entry, got:\n%s", got)
	}
	if !strings.Contains(got, "booktitle = {") {
		t.Errorf("proceedings venue should use booktitle:\n%s", got)
	}
	if strings.Contains(got, "journal = {") {
		t.Errorf("proceedings venue should not use journal:\n%s", got)
	}
}

func TestToBibTeXSparseRecord(t *testing.T) {
	got := ToBibTeX(record.Record{Title: "An Untracked Report"})

	if !strings.Contains(got, "title = {An Untracked Report},") {
		t.Errorf("missing title:\n%s", got)
	}
	for _, absent := range []string{"author =", "year =", "doi =", "journal ="} {
		if strings.Contains(got, absent) {
			t.Errorf("sparse record should not emit %q:\n%s", absent, got)
		}
	}
}

func TestToBibTeXEscapesLatex(t *testing.T) {
	rec := record.Record{Title: "Cost & Risk: 100% Coverage of K_8s"}

	got := ToBibTeX(rec)

	if !strings.Contains(got, `Cost \& Risk: 100\% Coverage of K\_8s`) {
		t.Errorf("special characters not escaped:\n%s", got)
	}
}

func TestToBibTeXList(t *testing.T) {
	recs := []record.Record{
		sampleRecord(),
		{Title: "Policy as Code", Year: "2023"},
	}

	got := ToBibTeXList(recs)

	if strings.Count(got, "@article{") != 2 {
		t.Errorf("expected 2 entries:\n%s", got)
	}
	if !strings.Contains(got, "}\n\n@article{") {
		t.Errorf("entries should be blank-line separated:\n%s", got)
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name string
		rec  record.Record
		want string
	}{
		{"full", sampleRecord(), "kim2024drift"},
		{"no authors", record.Record{Title: "Policy as Code", Year: "2023"}, "2023policy"},
		{"short leading words skipped", record.Record{Title: "On the Nature of Outages"}, "the"},
		{"empty", record.Record{}, "unknown"},
		{"unicode surname", record.Record{
			Authors: []record.Author{{Name: "José García"}},
			Year:    "2022",
			Title:   "Remediation Pipelines",
		}, "garcía2022remediation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(tt.rec); got != tt.want {
				t.Errorf("CiteKey = %q, want %q", got, tt.want)
			}
		})
	}
}
