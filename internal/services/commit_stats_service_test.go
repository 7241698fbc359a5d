package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAggregatesByEmail(t *testing.T) {
	log := strings.Join([]string{
		"Alice|alice@example.com|aaa111",
		"Bob|bob@example.com|bbb111",
		"Alice Smith|alice@example.com|aaa222",
		"Alice|alice@example.com|aaa333",
	}, "\n")

	service := NewCommitStatsService()
	records, total, err := service.scan(strings.NewReader(log))

	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, records, 2)

	alice := records[0]
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "Alice", alice.Name, "name comes from the first commit seen")
	assert.Equal(t, "aaa111", alice.SampleSHA, "sample SHA comes from the first commit seen")
	assert.Equal(t, 3, alice.Commits)

	bob := records[1]
	assert.Equal(t, "bob@example.com", bob.Email)
	assert.Equal(t, 1, bob.Commits)
}

func TestScanPreservesFirstSeenOrder(t *testing.T) {
	log := strings.Join([]string{
		"C|c@example.com|ccc",
		"A|a@example.com|aaa",
		"B|b@example.com|bbb",
		"A|a@example.com|aa2",
	}, "\n")

	service := NewCommitStatsService()
	records, _, err := service.scan(strings.NewReader(log))

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c@example.com", records[0].Email)
	assert.Equal(t, "a@example.com", records[1].Email)
	assert.Equal(t, "b@example.com", records[2].Email)
}

func TestScanSkipsMalformedLines(t *testing.T) {
	testCases := []struct {
		name            string
		log             string
		expectedRecords int
		expectedTotal   int
	}{
		{
			name:            "Missing field",
			log:             "alice@example.com|aaa111\nBob|bob@example.com|bbb111",
			expectedRecords: 1,
			expectedTotal:   1,
		},
		{
			name:            "Blank lines",
			log:             "\n\nBob|bob@example.com|bbb111\n\n",
			expectedRecords: 1,
			expectedTotal:   1,
		},
		{
			name:            "Empty input",
			log:             "",
			expectedRecords: 0,
			expectedTotal:   0,
		},
	}

	service := NewCommitStatsService()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, total, err := service.scan(strings.NewReader(tc.log))

			require.NoError(t, err)
			assert.Len(t, records, tc.expectedRecords)
			assert.Equal(t, tc.expectedTotal, total)
		})
	}
}

func TestScanKeepsPipeInAuthorName(t *testing.T) {
	log := strings.Join([]string{
		"Weird|Name|weird@example.com|ccc111",
		"Weird|Name|weird@example.com|ccc222",
		"Bob|bob@example.com|bbb111",
	}, "\n")

	service := NewCommitStatsService()
	records, total, err := service.scan(strings.NewReader(log))

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, records, 2)
	assert.Equal(t, "Weird|Name", records[0].Name)
	assert.Equal(t, "weird@example.com", records[0].Email)
	assert.Equal(t, "ccc111", records[0].SampleSHA)
	assert.Equal(t, 2, records[0].Commits, "names with pipes still count every commit")
}

func TestScanTrimsWhitespace(t *testing.T) {
	service := NewCommitStatsService()
	records, _, err := service.scan(strings.NewReader(" Alice | alice@example.com | aaa111 "))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, "alice@example.com", records[0].Email)
	assert.Equal(t, "aaa111", records[0].SampleSHA)
}
