package domain

// InvoiceStatus represents the lifecycle of an extracted invoice.
// Transitions only advance: Draft -> Ready -> Converted.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusReady     InvoiceStatus = "ready"
	InvoiceStatusConverted InvoiceStatus = "converted"
)

var statusRank = map[InvoiceStatus]int{
	InvoiceStatusDraft:     0,
	InvoiceStatusReady:     1,
	InvoiceStatusConverted: 2,
}

// CanTransition reports whether moving from s to next is a forward step.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// FileType represents the allowed source document types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// DefaultCurrency is assumed when the provider reports no currency.
const DefaultCurrency = "SAR"
