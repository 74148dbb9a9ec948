package nbia

// Collection is one entry of the collection catalog.
type Collection struct {
	Collection string `json:"Collection"`
}

// Study is one row of a collection's study inventory.
type Study struct {
	PatientID                           string  `json:"PatientID"`
	StudyInstanceUID                    string  `json:"StudyInstanceUID"`
	StudyDate                           string  `json:"StudyDate"`
	StudyDescription                    string  `json:"StudyDescription"`
	PatientAge                          string  `json:"PatientAge"`
	PatientSex                          string  `json:"PatientSex"`
	PatientName                         string  `json:"PatientName"`
	EthnicGroup                         string  `json:"EthnicGroup"`
	LongitudinalTemporalEventType       string   `json:"LongitudinalTemporalEventType"`
	LongitudinalTemporalOffsetFromEvent *float64 `json:"LongitudinalTemporalOffsetFromEvent"`
	SeriesCount                         int      `json:"SeriesCount"`
	AdmittingDiagnosesDescription       string  `json:"AdmittingDiagnosesDescription"`
	Collection                          string  `json:"Collection"`
}

// Criterion is one (field, value) pair of an advanced QC search.
type Criterion struct {
	Field string `json:"criteriaType"`
	Value string `json:"value"`
}

// advancedSearchRow is one row of the advanced QC search result.
type advancedSearchRow struct {
	Study          string `json:"study"`
	Series         string `json:"series"`
	CollectionSite string `json:"collectionSite"`
}

// seriesMetadata is one row of the batched series lookup.
type seriesMetadata struct {
	StudyUID       string  `json:"Study UID"`
	SeriesUID      string  `json:"Series UID"`
	NumberOfImages float64 `json:"Number of images"`
}

// tokenResponse is the OAuth password-grant reply.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
