// Package mocks provides shared test doubles for the service and auth
// interfaces, so handler and middleware tests do not each define their own.
//
// Two styles are used. Function-field mocks (MockIdentityResolver,
// MockJWTService, MockUserStore, MockPasswordHasher) fall back to canned
// values when a function is not set:
//
//	resolver := &mocks.MockIdentityResolver{User: &domain.User{ID: 1}}
//
// testify mocks (MockAuthService, MockTaskService) record calls and are
// programmed with On/Return:
//
//	tasks := new(mocks.MockTaskService)
//	tasks.On("Get", mock.Anything, int64(1), int64(2)).Return(task, nil)
package mocks
