package types

import "time"

// Draft is one title/content candidate surfaced to the caller.
type Draft struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	RiskLevel RiskLevel `json:"riskLevel"`
	WordCount int       `json:"wordCount"`
	Category  string    `json:"category"`
}

type Metadata struct {
	Category        string    `json:"category"`
	SubCategory     string    `json:"subCategory,omitempty"`
	ResponseTimeMs  int64     `json:"responseTime"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Model           string    `json:"aiModel"`
	Provider        string    `json:"provider"`
	ParseStrategy   string    `json:"parseStrategy"`
	ProcessingSteps []string  `json:"processingSteps"`
}

// GenerationResult holds 1 to 3 drafts and the metadata of the call that produced them.
type GenerationResult struct {
	RequestID string         `json:"requestId"`
	Drafts    []Draft        `json:"drafts"`
	Metadata  Metadata       `json:"metadata"`
	UserInfo  UserInfo       `json:"userInfo"`
	Request   RequestSummary `json:"request"`
}

// UserInfo echoes the writer identity back for the caller's UI.
type UserInfo struct {
	Name             string `json:"name"`
	Position         string `json:"position"`
	Region           string `json:"region"`
	District         string `json:"district"`
	ExpectedGreeting string `json:"expectedGreeting"`
}

type RequestSummary struct {
	Category      string `json:"category"`
	SubCategory   string `json:"subCategory,omitempty"`
	PromptLength  int    `json:"promptLength"`
	KeywordsCount int    `json:"keywordsCount"`
}
