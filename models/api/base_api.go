package apimodels

type Response struct {
	Success bool                `json:"success"`
	Status  string              `json:"status"`            // fail/success
	Message string              `json:"message,omitempty"` // error message
	Errors  map[string][]string `json:"errors,omitempty"`  // field level validation messages
	Data    interface{}         `json:"data,omitempty"`
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count"` // total rows matching the filter
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
}

func NewError(message string) Response {
	return Response{
		Success: false,
		Status:  "fail",
		Message: message,
	}
}

func NewValidationError(message string, fields map[string][]string) Response {
	resp := NewError(message)
	resp.Errors = fields
	return resp
}

func NewResponse(data interface{}) Response {
	return Response{
		Success: true,
		Status:  "success",
		Data:    data,
	}
}

func NewMessage(message string, data interface{}) Response {
	resp := NewResponse(data)
	resp.Message = message
	return resp
}

type Pagination struct {
	Limit int `json:"limit" query:"limit"` // rows per page
	Page  int `json:"page" query:"page"`   // page number (1,2,3..)
}

func (r Pagination) Validate() error {
	return nil
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 10
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func NewScrollerResponse(data interface{}, rowCount int64, pagination Pagination) ScrollerResponse {
	page, limit := pagination.GetPage()
	return ScrollerResponse{
		Response: NewResponse(data),
		RowCount: rowCount,
		Page:     page,
		Limit:    limit,
	}
}
