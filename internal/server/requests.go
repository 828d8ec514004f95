package server

import "github.com/contentiq/contentiq/models"

type extractRequest struct {
	URL           string              `json:"url"`
	IncludeImages bool                `json:"include_images"`
	IncludeLinks  bool                `json:"include_links"`
	OutputFormat  models.OutputFormat `json:"output_format"`
}

type summarizeRequest struct {
	URL       string               `json:"url"`
	Text      string               `json:"text"`
	Format    models.SummaryFormat `json:"format"`
	MaxLength int                  `json:"max_length"`
	Language  string               `json:"language"`
}

type sentimentRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type seoRequest struct {
	URL string `json:"url"`
}

type analyzeRequest struct {
	URL              string               `json:"url"`
	SummaryFormat    models.SummaryFormat `json:"summary_format"`
	SummaryMaxLength int                  `json:"summary_max_length"`
}

type compareRequest struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`
}
