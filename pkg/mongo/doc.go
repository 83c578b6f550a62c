// Package mongo connects to MongoDB with the v2 driver for the session store.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := mongostore.New(db.Collection("sessions"))
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
package mongo
