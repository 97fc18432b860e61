package job

import (
	"github.com/ahmethakanbesel/similarity-api/internal/apperror"
	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
)

// CreateJobRequest is the job-creation payload. Column letters arrive as
// strings and are parsed exactly once, here.
type CreateJobRequest struct {
	SpreadsheetID   string `json:"spreadsheetId"`
	SheetName       string `json:"sheetName"`
	SourceColumn    string `json:"sourceColumn"`
	TargetColumn    string `json:"targetColumn"`
	OutputColumn    string `json:"outputColumn"`
	ThresholdColumn string `json:"thresholdColumn"`
}

// Parse validates the request and resolves it into an immutable Source.
// Nothing is inserted into the store until this succeeds.
func (r CreateJobRequest) Parse() (Source, *apperror.AppError) {
	if r.SpreadsheetID == "" {
		return Source{}, apperror.New(apperror.BadRequest, "spreadsheetId is required")
	}

	sheetName := r.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	src, err := parseColumn(r.SourceColumn, "A", "sourceColumn")
	if err != nil {
		return Source{}, err
	}
	tgt, err := parseColumn(r.TargetColumn, "B", "targetColumn")
	if err != nil {
		return Source{}, err
	}
	out, err := parseColumn(r.OutputColumn, "C", "outputColumn")
	if err != nil {
		return Source{}, err
	}

	label := out.Next()
	if r.ThresholdColumn != "" {
		label, err = parseColumn(r.ThresholdColumn, "", "thresholdColumn")
		if err != nil {
			return Source{}, err
		}
	}

	if out == src || out == tgt || label == src || label == tgt {
		return Source{}, apperror.New(apperror.BadRequest, "output columns must not overlap input columns")
	}
	if src == tgt {
		return Source{}, apperror.New(apperror.BadRequest, "sourceColumn and targetColumn must differ")
	}

	return Source{
		SpreadsheetID: r.SpreadsheetID,
		SheetName:     sheetName,
		SourceColumn:  src,
		TargetColumn:  tgt,
		OutputColumn:  out,
		LabelColumn:   label,
	}, nil
}

func parseColumn(letter, fallback, field string) (sheet.Column, *apperror.AppError) {
	if letter == "" {
		letter = fallback
	}
	col, err := sheet.ParseColumn(letter)
	if err != nil {
		return 0, apperror.New(apperror.BadRequest, "invalid "+field+": "+err.Error())
	}
	return col, nil
}

type GetJobRequest struct {
	ID string
}

func (r GetJobRequest) Validate() *apperror.AppError {
	if r.ID == "" {
		return apperror.New(apperror.BadRequest, "invalid job id")
	}
	return nil
}
