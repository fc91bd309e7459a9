package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS checkouts (
	  id CHAR(36) NOT NULL,
	  user_id CHAR(36) NULL,
	  email VARCHAR(255) NOT NULL,
	  total_cents INT NOT NULL,
	  currency CHAR(3) NOT NULL DEFAULT 'NPR',
	  status VARCHAR(16) NOT NULL DEFAULT 'open',
	  completed_at DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_checkouts_user_id (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  checkout_id CHAR(36) NULL,
	  user_id CHAR(36) NULL,
	  guest_email VARCHAR(255) NULL,
	  total_cents INT NOT NULL,
	  currency CHAR(3) NOT NULL DEFAULT 'NPR',
	  status VARCHAR(16) NOT NULL DEFAULT 'created',
	  paid_at DATETIME(3) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_orders_checkout_id (checkout_id),
	  CONSTRAINT fk_orders_checkout FOREIGN KEY (checkout_id) REFERENCES checkouts(id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS payments (
	  id CHAR(36) NOT NULL,
	  gateway VARCHAR(64) NOT NULL,
	  reference VARCHAR(64) NOT NULL,
	  token VARCHAR(64) NOT NULL DEFAULT '',
	  checkout_id CHAR(36) NULL,
	  order_id CHAR(36) NULL,
	  to_confirm TINYINT(1) NOT NULL DEFAULT 0,
	  is_active TINYINT(1) NOT NULL DEFAULT 1,
	  total_cents INT NOT NULL,
	  currency CHAR(3) NOT NULL DEFAULT 'NPR',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_payments_gateway_reference (gateway, reference),
	  KEY ix_payments_checkout_id (checkout_id),
	  KEY ix_payments_order_id (order_id),
	  CONSTRAINT fk_payments_checkout FOREIGN KEY (checkout_id) REFERENCES checkouts(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS transactions (
	  id CHAR(36) NOT NULL,
	  payment_id CHAR(36) NOT NULL,
	  kind VARCHAR(32) NOT NULL,
	  token VARCHAR(64) NOT NULL DEFAULT '',
	  action_required TINYINT(1) NOT NULL DEFAULT 0,
	  is_success TINYINT(1) NOT NULL DEFAULT 0,
	  searchable_key VARCHAR(64) NOT NULL DEFAULT '',
	  amount VARCHAR(32) NOT NULL DEFAULT '',
	  currency CHAR(3) NOT NULL DEFAULT '',
	  raw_response JSON NULL,
	  error VARCHAR(255) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_transactions_payment_token_kind (payment_id, token, kind),
	  KEY ix_transactions_searchable_key (searchable_key),
	  CONSTRAINT fk_transactions_payment FOREIGN KEY (payment_id) REFERENCES payments(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS order_financial_entries (
	  id CHAR(36) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  event VARCHAR(32) NOT NULL,
	  amount_cents INT NOT NULL,
	  currency CHAR(3) NOT NULL,
	  ref_type VARCHAR(16) NOT NULL,
	  ref_id CHAR(36) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_order_fin_entries_order_created (order_id, created_at),
	  KEY ix_order_fin_entries_ref (ref_type, ref_id),
	  CONSTRAINT fk_order_fin_entries_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ checkouts table created successfully")
	log.Println("✓ orders table created successfully")
	log.Println("✓ payments table created successfully")
	log.Println("✓ transactions table created successfully")
	log.Println("✓ order_financial_entries table created successfully")
}
