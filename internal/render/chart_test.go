package render

import (
	"bytes"
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testMean() *models.MeanTimeSeries {
	return &models.MeanTimeSeries{
		Steps: []models.MeanCounts{
			{Susceptible: 49, Infected: 1, Recovered: 0},
			{Susceptible: 45.5, Infected: 4, Recovered: 0.5},
			{Susceptible: 40, Infected: 7.5, Recovered: 2.5},
			{Susceptible: 38, Infected: 5, Recovered: 7},
		},
		Trials: 2,
	}
}

func testPartitionedMean() *models.MeanTimeSeries {
	mean := testMean()
	for range mean.Steps {
		mean.Partitions = append(mean.Partitions, []models.MeanCounts{
			{Susceptible: 20, Infected: 3, Recovered: 2},
			{Susceptible: 22, Infected: 2, Recovered: 1},
		})
	}
	return mean
}

func TestCurvePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := CurvePNG(&buf, "baseline", testMean()); err != nil {
		t.Fatalf("CurvePNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Errorf("expected PNG output, got leading bytes %v", buf.Bytes()[:4])
	}
}

func TestCurvePNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := CurvePNG(&buf, "empty", nil); err == nil {
		t.Fatalf("expected an error for an empty series")
	}
	if err := CurvePNG(&buf, "empty", &models.MeanTimeSeries{}); err == nil {
		t.Fatalf("expected an error for a zero-length series")
	}
}

func TestComparisonPNG(t *testing.T) {
	results := []models.ExperimentResult{
		{Name: "low", Mean: testMean()},
		{Name: "high", Mean: testMean()},
		{Name: "vaccinated", Mean: testMean()},
	}

	var buf bytes.Buffer
	if err := ComparisonPNG(&buf, "transmission sweep", results); err != nil {
		t.Fatalf("ComparisonPNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Errorf("expected PNG output")
	}
}

func TestComparisonPNGRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ComparisonPNG(&buf, "empty", nil); err == nil {
		t.Fatalf("expected an error for no results")
	}
	results := []models.ExperimentResult{{Name: "hollow"}}
	if err := ComparisonPNG(&buf, "hollow", results); err == nil {
		t.Fatalf("expected an error for a result without a series")
	}
}

func TestVillagePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := VillagePNG(&buf, "villages", testPartitionedMean()); err != nil {
		t.Fatalf("VillagePNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Errorf("expected PNG output")
	}
}

func TestVillagePNGRequiresPartitions(t *testing.T) {
	var buf bytes.Buffer
	if err := VillagePNG(&buf, "flat", testMean()); err == nil {
		t.Fatalf("expected an error for a series without partitions")
	}
}
