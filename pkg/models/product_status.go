package models

// statusDisplay maps stored status values to the label shown to shoppers.
var statusDisplay = map[ProductStatus]string{
	StatusLegacyInStock: string(StatusInStock),
}

// Display returns the label to render for a status. Unmapped values are
// shown as stored.
func (s ProductStatus) Display() string {
	if label, ok := statusDisplay[s]; ok {
		return label
	}
	return string(s)
}
