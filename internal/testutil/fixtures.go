package testutil

// Passage is the race text used across package tests.
const Passage = "the quick brown fox jumps over the lazy dog"
