// Package recognize talks to the external recognition model that reads
// photographed invoices. The model is a collaborator, not part of this
// service: it receives an image and a Vietnamese prompt and answers with
// raw text that should contain one bracket-delimited record block. The
// extraction pipeline tolerates that text being malformed or absent.
package recognize

import "context"

// Prompt instructs the model to answer with exactly the record shape the
// extractor consumes: one header object then one object per line item.
const Prompt = `Nhận diện hoá đơn trong ảnh. Chỉ trả về phần liệt kê từng mặt hàng dưới dạng JSON, phần Ngày tạo đơn và Tên khách hàng chỉ in ra một lần:
[
  {
    "Ngày tạo đơn": "Ngày tạo đơn",
    "Tên khách hàng": "Tên khách hàng"
  },
  {
    "Tên mặt hàng": "Tên mặt hàng",
    "Đơn vị tính": "Đơn vị tính",
    "Số lượng": "Số lượng",
    "Đơn giá": "Đơn giá",
    "Thành tiền": "Thành tiền"
  }
]
`

// Recognizer is the interface the upload pipeline depends on.
type Recognizer interface {
	// Recognize reads one invoice image and returns the model's raw
	// text output.
	Recognize(ctx context.Context, imagePath string) (string, error)
}
