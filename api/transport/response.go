package transport

// Envelope wraps every API response. Error carries the message of a failed
// request; Meta carries field errors or list paging.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta describes one page of a list response.
type ListMeta struct {
	Count  int `json:"count"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusSuccess, Data: data, Meta: meta}
}

func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{Status: statusError, Code: code, Error: message, Meta: meta}
}
