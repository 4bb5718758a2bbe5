package main

// @title Grocery POS API
// @version 1.0
// @description Point of sale backend: catalog, stock ledger, checkout, customers, notifications and reports.

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Login and registration

// @tag.name Products
// @tag.description Product catalog

// @tag.name Inventory
// @tag.description Stock levels and the stock ledger

// @tag.name Sales
// @tag.description Checkout and cancellation

// @tag.name Customers
// @tag.description Customers and loyalty points

// @tag.name Notifications
// @tag.description Stock alerts for staff

// @tag.name Settings
// @tag.description Store settings

// @tag.name Reports
// @tag.description Sales and inventory reports

// @tag.name Health
// @tag.description Health check endpoints
