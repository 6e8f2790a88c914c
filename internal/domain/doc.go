// Package domain contains the core entities of the StudyTrack application:
// users, subjects and study sessions, together with their validation rules.
// Entities here carry no persistence concerns; stores and services operate
// on these types.
package domain
