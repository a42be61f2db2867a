// Manual smoke test for the Cashfree sandbox integration.
// Usage: CASHFREE_CLIENT_ID=... CASHFREE_CLIENT_SECRET=... go run ./sample/test-cashfree-order
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vidhiq/vidhiq-backend/internal/infra/integration/cashfree"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	client := cashfree.NewClient(
		os.Getenv("CASHFREE_CLIENT_ID"),
		os.Getenv("CASHFREE_CLIENT_SECRET"),
		"sandbox",
	)

	order, err := client.CreateOrder(context.Background(), usecase.OrderParams{
		Amount:        149900, // Rs 1499
		Currency:      "INR",
		CustomerID:    "sample-lead-1",
		CustomerName:  "Sample Customer",
		CustomerPhone: "+919876543210",
		Notes:         map[string]string{"lead_id": "sample-lead-1"},
	})
	if err != nil {
		fmt.Println("create order failed:", err)
		os.Exit(1)
	}

	fmt.Println("order id:          ", order.OrderID)
	fmt.Println("payment session id:", order.SessionID)

	record, err := client.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: order.OrderID})
	fmt.Println("verify (expected to fail before checkout):", record, err)
}
