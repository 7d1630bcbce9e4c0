// Package mocks provides testify mocks of the store interfaces.
//
// Service tests use them to force store failures and races that the memory
// store cannot produce on demand:
//
//	shops := &mocks.TestifyMockShopStore{}
//	shops.On("CommitPurchase", mock.Anything, mock.Anything).
//	    Return(nil, store.ErrInsufficientBalance)
//
// Each mock asserts its interface at compile time.
package mocks
