package types

// StructuredResumeData is the deterministic extraction result for a resume.
type StructuredResumeData struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	RawText    string   `json:"raw_text"`
}

// ParsedResume is returned by the resume upload endpoint.
type ParsedResume struct {
	ParsedText     string               `json:"parsed_text"`
	Skills         []string             `json:"skills"`
	Experience     []string             `json:"experience"`
	Education      []string             `json:"education"`
	StructuredData StructuredResumeData `json:"structured_data"`
}

// NewParsedResume wraps extracted data in the upload response shape.
func NewParsedResume(data StructuredResumeData) *ParsedResume {
	return &ParsedResume{
		ParsedText:     data.RawText,
		Skills:         data.Skills,
		Experience:     data.Experience,
		Education:      data.Education,
		StructuredData: data,
	}
}
