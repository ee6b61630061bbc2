// Package services holds the business operations behind the REST API and
// the console screens.
//
//   - CatalogService: validated CRUD and confirmed deletion for any resource
//   - CallService: call detail, click counting and image upload
//   - ExplorerService, FavoritesService, HomeService: public catalog browsing
//   - PreferencesService: dark mode and font size per owner
//   - AuthService, ProfileService: accounts and sessions
package services
