package constants

// Record keys as emitted by the recognition model. The model is prompted
// in Vietnamese and answers with these exact keys.
const (
	KeyDate      = "Ngày tạo đơn"
	KeyCustomer  = "Tên khách hàng"
	KeyProduct   = "Tên mặt hàng"
	KeyUnit      = "Đơn vị tính"
	KeyQuantity  = "Số lượng"
	KeyUnitPrice = "Đơn giá"
	KeyLineTotal = "Thành tiền"
	KeyOrderCode = "Mã tạo đơn"
	KeySeq       = "STT"
)

// SheetName is the worksheet the order table lives on.
const SheetName = "Sheet1"

// Columns is the fixed column order of the persisted order table.
var Columns = []string{
	KeySeq,
	KeyOrderCode,
	KeyDate,
	KeyCustomer,
	KeyProduct,
	KeyUnit,
	KeyQuantity,
	KeyUnitPrice,
	KeyLineTotal,
}
