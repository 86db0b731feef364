// Invoice HTTP handlers.
//
// This file exposes the extraction and rendering endpoints:
//   - POST /upload                 (multipart screenshots → InvoiceRecord JSON)
//   - POST /generate-invoice       (mapping → PDF attachment)
//   - POST /generate-invoice/xlsx  (mapping → XLSX attachment)
//   - POST /invoice-preview        (mapping → HTML)
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/extract"
	"github.com/tbourn/go-invoice-backend/internal/services"
)

// uploadField is the multipart field carrying the screenshots.
const uploadField = "images"

//
// DTOs (documentation only)
//

// InvoiceRecordSchema documents the /upload response. Fields the model did
// not report are null.
type InvoiceRecordSchema struct {
	CompanyName   *string       `json:"companyName" example:"Acme Traders"`
	Address       *string       `json:"address" example:"12 MG Road, Pune"`
	ClientName    *string       `json:"clientName" example:"Ravi Kumar"`
	ClientAddress *string       `json:"clientAddress"`
	Date          *string       `json:"date" example:"2024-03-01"`
	Items         []domain.Item `json:"items"`
	GST           *string       `json:"gst" example:"27AAPFU0939F1ZV"`
	PaymentMode   *string       `json:"paymentMode" example:"UPI"`
	PaymentStatus *string       `json:"paymentStatus" example:"paid"`
}

// InvoiceMapping documents the render request body: invoice fields plus any
// extra placeholders (e.g. totalAmount, invoiceNumber).
type InvoiceMapping map[string]any

//
// Helpers
//

// tooLarge reports whether err comes from the router's body cap.
func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// readImages loads every file of the "images" field in upload order.
func (h *Handlers) readImages(c *gin.Context) ([][]byte, int, string) {
	form, err := c.MultipartForm()
	if err != nil {
		if tooLarge(err) {
			return nil, http.StatusRequestEntityTooLarge, "upload too large"
		}
		return nil, http.StatusBadRequest, `expected multipart/form-data with one or more "images" files`
	}
	defer form.RemoveAll()

	files := form.File[uploadField]
	if len(files) > h.maxImages {
		return nil, http.StatusBadRequest, fmt.Sprintf("at most %d images are allowed", h.maxImages)
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		b, err := readPart(fh)
		if err != nil {
			return nil, http.StatusBadRequest, "could not read uploaded image"
		}
		images = append(images, b)
	}
	return images, 0, ""
}

// readMapping decodes the JSON object body of a render request.
func readMapping(c *gin.Context) (map[string]any, int, string) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if tooLarge(err) {
			return nil, http.StatusRequestEntityTooLarge, "request body too large"
		}
		return nil, http.StatusBadRequest, "could not read request body"
	}
	data, err := extract.DecodeObject(bytes.NewReader(body))
	if err != nil {
		return nil, http.StatusBadRequest, "request body must be a JSON object"
	}
	return data, 0, ""
}

func codeFor(status int) string {
	if status == http.StatusRequestEntityTooLarge {
		return ErrCodePayloadTooLarge
	}
	return ErrCodeBadRequest
}

//
// Handlers
//

// Upload godoc
// @ID          uploadInvoice
// @Summary     Extract invoice data from screenshots
// @Description Sends the uploaded chat screenshots to the vision model and returns the validated invoice record. Limited to 5 requests per 15 minutes per client address.
// @Tags        Invoices
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       images  formData  file  true  "One or more screenshots, in conversation order"
//
// @Success     200  {object}  handlers.InvoiceRecordSchema
// @Header      200  {string}  X-RateLimit-Remaining  "Requests left in the current window"
// @Failure     400  {object}  handlers.ErrorResponse  "No images or bad form"
// @Failure     413  {object}  handlers.ErrorResponse  "Upload too large"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Header      429  {string}  Retry-After            "Seconds until a request slot frees up"
// @Failure     500  {object}  handlers.ErrorResponse  "Extraction failed"
// @Router      /upload [post]
func (h *Handlers) Upload(c *gin.Context) {
	images, status, msg := h.readImages(c)
	if status != 0 {
		fail(c, status, codeFor(status), msg)
		return
	}

	rec, err := h.extractSvc.Extract(c.Request.Context(), images)
	switch {
	case err == nil:
		ok(c, http.StatusOK, rec)
	case errors.Is(err, services.ErrNoImages):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeExtractionFailed, "could not extract invoice data", err)
	}
}

// GenerateInvoice godoc
// @ID          generateInvoice
// @Summary     Render an invoice as PDF
// @Description Renders the posted invoice mapping (usually an edited /upload result) and returns it as a PDF download.
// @Tags        Invoices
// @Accept      json
// @Produce     application/pdf
//
// @Param       body  body  handlers.InvoiceMapping  true  "Invoice fields and placeholders"
//
// @Success     200  {file}    file                    "invoice.pdf"
// @Failure     400  {object}  handlers.ErrorResponse  "Body is not a valid invoice mapping"
// @Failure     500  {object}  handlers.ErrorResponse  "Rendering failed"
// @Router      /generate-invoice [post]
func (h *Handlers) GenerateInvoice(c *gin.Context) { h.render(c, services.FormatPDF) }

// GenerateInvoiceXLSX godoc
// @ID          generateInvoiceXLSX
// @Summary     Render an invoice as a spreadsheet
// @Tags        Invoices
// @Accept      json
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//
// @Param       body  body  handlers.InvoiceMapping  true  "Invoice fields and placeholders"
//
// @Success     200  {file}    file                    "invoice.xlsx"
// @Failure     400  {object}  handlers.ErrorResponse  "Body is not a valid invoice mapping"
// @Failure     500  {object}  handlers.ErrorResponse  "Rendering failed"
// @Router      /generate-invoice/xlsx [post]
func (h *Handlers) GenerateInvoiceXLSX(c *gin.Context) { h.render(c, services.FormatXLSX) }

// InvoicePreview godoc
// @ID          invoicePreview
// @Summary     Preview an invoice as HTML
// @Tags        Invoices
// @Accept      json
// @Produce     html
//
// @Param       body  body  handlers.InvoiceMapping  true  "Invoice fields and placeholders"
//
// @Success     200  {string}  string                  "HTML document"
// @Failure     400  {object}  handlers.ErrorResponse  "Body is not a valid invoice mapping"
// @Failure     500  {object}  handlers.ErrorResponse  "Rendering failed"
// @Router      /invoice-preview [post]
func (h *Handlers) InvoicePreview(c *gin.Context) { h.render(c, services.FormatHTML) }

func (h *Handlers) render(c *gin.Context, format services.Format) {
	data, status, msg := readMapping(c)
	if status != 0 {
		fail(c, status, codeFor(status), msg)
		return
	}

	doc, err := h.renderSvc.Render(c.Request.Context(), format, data)
	switch {
	case err == nil:
		document(c, doc.ContentType, doc.Filename, doc.Body)
	case errors.Is(err, services.ErrInvalidInvoice):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeRenderFailed, "could not render invoice", err)
	}
}
