// Package surveygate validates uploaded survey responses against a
// campaign configuration.
//
// A campaign is loaded once (see the campaign package) and wrapped in an
// Engine; each upload is then checked in a single pass:
//
//	cfg, _ := campaign.LoadJSON(defBytes)
//	eng, _ := surveygate.New(cfg)
//	res, err := eng.Validate(ctx, uploadBytes)
//	if !res.Accepted() {
//		log.Println(res.Rejection())
//	}
//
// Validation walks the responses array in upload order. Every entry is
// resolved against the configuration, checked for consistency with its
// display condition, and its value is dispatched to the validator for the
// prompt's type (see the promptval package). The first failure aborts the
// walk and the Result carries a single Issue with a JSON Pointer into the
// upload.
//
// A rejected upload is not an error: the error return of Validate is
// reserved for caller bugs (a condition referencing a prompt the walker
// never recorded) and context cancellation.
package surveygate
