package database

// SQL used by the persistence layer. Postgres placeholders.
const (
	QueryEnsureUser = `
		INSERT INTO users (id, email, credits)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`

	QueryGetUserByEmail = `
		SELECT id, email, credits, created_at
		FROM users
		WHERE email = $1`

	// QueryChargeCredit refuses to go below zero; QueryChargeCreditUnchecked does not.
	QueryChargeCredit = `
		UPDATE users
		SET credits = credits - 1
		WHERE email = $1 AND credits > 0
		RETURNING credits`

	QueryChargeCreditUnchecked = `
		UPDATE users
		SET credits = credits - 1
		WHERE email = $1
		RETURNING credits`

	QueryRefundCredit = `
		UPDATE users
		SET credits = credits + 1
		WHERE email = $1
		RETURNING credits`

	QueryCreateRoom = `
		INSERT INTO rooms (id, user_id, input_image, output_image, prompt)
		SELECT $1::uuid, u.id, $3::text, $4::text, $5::text
		FROM users u
		WHERE u.email = $2
		RETURNING user_id, created_at`

	QueryGetRoom = `
		SELECT r.id, r.user_id, r.input_image, r.output_image, r.prompt, r.created_at
		FROM rooms r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1 AND u.email = $2`

	QueryListRooms = `
		SELECT r.id, r.user_id, r.input_image, r.output_image, r.prompt, r.created_at
		FROM rooms r
		JOIN users u ON u.id = r.user_id
		WHERE u.email = $1
		ORDER BY r.created_at DESC
		LIMIT $2`
)
