package domain

// Row is one selectable entry of a choice list.
type Row struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Section is a named group of rows.
type Section struct {
	Title string `json:"title,omitempty"`
	Rows  []Row  `json:"rows"`
}

// ChoiceList is a structured "list of choices" message.
type ChoiceList struct {
	Prompt     string    `json:"prompt"`
	ButtonText string    `json:"button_text,omitempty"`
	Sections   []Section `json:"sections"`
	Footer     string    `json:"footer,omitempty"`
}

// Rows returns all rows in presentation order (global ordinal order).
func (c ChoiceList) Rows() []Row {
	var rows []Row
	for _, s := range c.Sections {
		rows = append(rows, s.Rows...)
	}
	return rows
}
