package dataset

import (
	"fmt"
	"sort"
)

// LabelSetVersion identifies the revision of the label table below. Bump it
// whenever a label is added, removed or renamed.
const LabelSetVersion = "2024.1"

// Field names a column of the source file. Values match the header exactly.
type Field string

const (
	FieldEmployeeID         Field = "employee_id"
	FieldDepartment         Field = "department"
	FieldRegion             Field = "region"
	FieldEducation          Field = "education"
	FieldGender             Field = "gender"
	FieldRecruitmentChannel Field = "recruitment_channel"
	FieldNoOfTrainings      Field = "no_of_trainings"
	FieldDateOfBirth        Field = "date_of_birth"
	FieldPreviousRating     Field = "previous_year_rating"
	FieldLengthOfService    Field = "length_of_service"
	FieldKPIMet             Field = "KPIs_met >80%"
	FieldAwardsWon          Field = "awards_won?"
	FieldAvgTrainingScore   Field = "avg_training_score"
	FieldPromoted           Field = "is_promoted"
	FieldJoinDate           Field = "join_date"
)

// Columns lists the required columns in canonical order.
var Columns = []Field{
	FieldEmployeeID,
	FieldDepartment,
	FieldRegion,
	FieldEducation,
	FieldGender,
	FieldRecruitmentChannel,
	FieldNoOfTrainings,
	FieldDateOfBirth,
	FieldPreviousRating,
	FieldLengthOfService,
	FieldKPIMet,
	FieldAwardsWon,
	FieldAvgTrainingScore,
	FieldPromoted,
	FieldJoinDate,
}

// Display labels for the two-valued flag fields.
const (
	Yes = "Yes"
	No  = "No"
)

// Display labels for gender.
const (
	Male   = "Male"
	Female = "Female"
)

// LabelSet is the closed set of display labels a categorical field may take.
type LabelSet struct {
	Field  Field
	Title  string
	Labels []string

	index map[string]struct{}
}

func newLabelSet(f Field, title string, labels ...string) *LabelSet {
	ls := &LabelSet{Field: f, Title: title, Labels: labels, index: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		ls.index[l] = struct{}{}
	}
	return ls
}

// Contains reports whether label is a member of the set.
func (ls *LabelSet) Contains(label string) bool {
	_, ok := ls.index[label]
	return ok
}

func regionLabels(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("region_%d", i))
	}
	return out
}

var labelSets = map[Field]*LabelSet{
	FieldDepartment: newLabelSet(FieldDepartment, "Department",
		"Analytics", "Finance", "HR", "Legal", "Operations", "Procurement", "R&D", "Sales & Marketing", "Technology"),
	FieldRegion:             newLabelSet(FieldRegion, "Region", regionLabels(34)...),
	FieldEducation:          newLabelSet(FieldEducation, "Education", "Bachelor's", "Below Secondary", "Master's & above"),
	FieldGender:             newLabelSet(FieldGender, "Gender", Female, Male),
	FieldRecruitmentChannel: newLabelSet(FieldRecruitmentChannel, "Recruitment Channel", "other", "referred", "sourcing"),
	FieldKPIMet:             newLabelSet(FieldKPIMet, "KPI Met >80%", No, Yes),
	FieldAwardsWon:          newLabelSet(FieldAwardsWon, "Awards Won?", No, Yes),
	FieldPromoted:           newLabelSet(FieldPromoted, "Promoted Status", No, Yes),
}

// Labels returns the label set for a categorical field, or nil if the field
// is not categorical.
func Labels(f Field) *LabelSet {
	return labelSets[f]
}

// Departments returns the department label set in display order.
func Departments() []string {
	return append([]string(nil), labelSets[FieldDepartment].Labels...)
}

// RateFields are the grouping fields the promotion-rate view accepts, in the
// order they are offered to the user.
var RateFields = []Field{
	FieldDepartment,
	FieldGender,
	FieldRegion,
	FieldRecruitmentChannel,
	FieldKPIMet,
	FieldAwardsWon,
}

// IsRateField reports whether f may be used to group the promotion rate.
func IsRateField(f Field) bool {
	for _, rf := range RateFields {
		if rf == f {
			return true
		}
	}
	return false
}

// IsDepartment reports whether name belongs to the department label set.
func IsDepartment(name string) bool {
	return labelSets[FieldDepartment].Contains(name)
}

// categoricalFields returns the categorical fields sorted by name so that
// validation reports the same first error on every run.
func categoricalFields() []Field {
	out := make([]Field, 0, len(labelSets))
	for f := range labelSets {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// raw encodings used by the source file
var (
	flagDecode   = map[string]string{"0": No, "1": Yes}
	flagEncode   = map[string]string{No: "0", Yes: "1"}
	genderDecode = map[string]string{"m": Male, "f": Female}
	genderEncode = map[string]string{Male: "m", Female: "f"}
)
