package underwriting

// Field is one named value of a feature row.
type Field struct {
	Name  string
	Value interface{}
}

// Row is an ordered list of named values. Order is significant: it is the
// column order the model was trained on.
type Row []Field

// Get returns the value of name.
func (r Row) Get(name string) (interface{}, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the column labels in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Map flattens the row for logging and job variables.
func (r Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for _, f := range r {
		out[f.Name] = f.Value
	}
	return out
}

// ModelInputRow is the encoded, scaled row handed to the classifier.
type ModelInputRow struct {
	Columns []string
	Values  []float64
}
