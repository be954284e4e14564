package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// signedFieldNames is the fixed field list the gateway expects in the
// signature, in this exact order.
const signedFieldNames = "total_amount,transaction_uuid,product_code"

// Sign computes the gateway signature: base64 of an HMAC-SHA256 over
// "total_amount=X,transaction_uuid=Y,product_code=Z".
func Sign(totalAmount, transactionUUID, productCode, secretKey string) string {
	base := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// TransactionRef builds the caller-generated transaction reference that
// correlates a gateway callback with the originating appointment.
func TransactionRef(now time.Time, appointmentID string) string {
	return fmt.Sprintf("%s-%s", now.Format("060102-150405"), appointmentID)
}

// FormatAmount renders a monetary amount the way the gateway signs it.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
